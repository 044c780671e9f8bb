package dataset

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"tankfill-service/internal/cargo/model"
	"tankfill-service/internal/cargo/service"
	"tankfill-service/internal/fileio"
)

// Column aliases, "|"-separated. Published TP tables disagree on header
// wording, so resolution is tolerant (exact, then normalized, then contains).
const (
	unNumberAliases  = "UN Number|UN No|UN"
	cargoNameAliases = "Cargo Name|Proper Shipping Name|Name"
	tpCodeAliases    = "TP Code|Tank Provision|TP"
)

// Load reads the reference table from path (.xlsx/.xls/.csv) and returns a
// normalized, immutable dataset.
func Load(path string, headerRow int) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference table: %w", err)
	}
	defer f.Close()

	maps, err := fileio.ReadTableMaps(f, path, headerRow)
	if err != nil {
		return nil, fmt.Errorf("read reference table: %w", err)
	}
	return build(maps, path), nil
}

func build(maps []map[string]string, source string) *model.Dataset {
	records := make([]model.CargoRecord, 0, len(maps))
	for _, rec := range maps {
		un := strings.TrimSpace(rec[resolveKey(rec, unNumberAliases)])
		name := strings.TrimSpace(rec[resolveKey(rec, cargoNameAliases)])
		if un == "" && name == "" {
			continue
		}
		records = append(records, model.CargoRecord{
			UNNumber:  service.NormalizeKey(un),
			CargoName: service.NormalizeKey(name),
			TPCode:    strings.ToUpper(strings.TrimSpace(rec[resolveKey(rec, tpCodeAliases)])),
			RawUN:     un,
			RawName:   name,
		})
	}
	return &model.Dataset{Records: records, Source: source, LoadedAt: time.Now()}
}

var rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the real column name in a record for a wanted header.
// Alternatives go through "|"; falls back to normalized equality, then to
// the longest contains-match for composite headers ("UN No. (4 digits)").
func resolveKey(rec map[string]string, want string) string {
	alts := strings.Split(want, "|")
	for _, a := range alts {
		if _, ok := rec[strings.TrimSpace(a)]; ok {
			return strings.TrimSpace(a)
		}
	}

	nAlts := make([]string, 0, len(alts))
	for _, a := range alts {
		nAlts = append(nAlts, normHeaderKey(a))
	}
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nAlts {
			if nk == n {
				return k
			}
		}
	}

	bestKey, bestScore := "", 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nAlts {
			if n == "" {
				continue
			}
			if strings.Contains(nk, n) || strings.Contains(n, nk) {
				if len(n) > bestScore {
					bestScore, bestKey = len(n), k
				}
			}
		}
	}
	return bestKey
}
