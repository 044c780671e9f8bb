package model

import "time"

// Recognized TP classification codes. The matcher and the calculator must
// agree on this set; anything else in the source table is reported as an
// invalid classification, never silently defaulted.
const (
	TP1 = "TP1"
	TP2 = "TP2"
)

func RecognizedTPCode(code string) bool {
	switch code {
	case TP1, TP2:
		return true
	}
	return false
}

// CargoRecord is one row of the reference table. UNNumber and CargoName are
// normalized (trimmed, case-folded) at load time; the raw originals are kept
// for echoing back to the caller.
type CargoRecord struct {
	UNNumber  string
	CargoName string
	TPCode    string // trimmed + upper-cased; may be blank or outside the recognized set
	RawUN     string
	RawName   string
}

// Dataset is an immutable snapshot of the reference table. It is never
// mutated after construction; reloads swap in a whole new snapshot.
type Dataset struct {
	Records  []CargoRecord
	Source   string
	LoadedAt time.Time
}

func (d *Dataset) Empty() bool { return d == nil || len(d.Records) == 0 }

// Matching strategies for the single-field path. A query that supplies the
// UN-number/cargo-name pair always uses dual-field matching.
type Strategy string

const (
	StrategyExactSingle Strategy = "exact-single"
	StrategyExactDual   Strategy = "exact-dual"
	StrategyFuzzySingle Strategy = "fuzzy-single"
)

// Query is either a single free-text identifier (Text) matched against both
// reference columns, or an explicit UN-number/cargo-name pair.
type Query struct {
	Text      string
	UNNumber  string
	CargoName string
}

func (q Query) Dual() bool { return q.UNNumber != "" && q.CargoName != "" }

type MatchOptions struct {
	Strategy       Strategy
	FuzzyThreshold int // fuzzy candidates are accepted only if score strictly exceeds this
}

const (
	MethodExact = "exact"
	MethodFuzzy = "fuzzy"
)

// Match is a resolved lookup: the TP code plus how it was found.
type Match struct {
	TPCode    string
	UNNumber  string // raw value from the matched record
	CargoName string
	Method    string // exact | fuzzy
	Score     *int   // similarity 0..100, fuzzy only
}

type CalculationInput struct {
	Density15    float64 // kg/l at 15°C
	Density50    float64 // kg/l at 50°C; divisor, must be nonzero
	TankCapacity float64 // litres
	TPCode       string
}

// CalculationResult is derived per request and never stored.
type CalculationResult struct {
	FillingPercentage float64 `json:"fillingPercentage"`
	PermittedVolume   float64 `json:"permittedVolume"`
	PermittedMass     float64 `json:"permittedMass"`
}
