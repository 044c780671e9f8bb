package service

import (
	"strings"

	"tankfill-service/internal/cargo/model"
)

// DefaultFuzzyThreshold is the score a fuzzy candidate must strictly exceed.
// Carried over from the reference behavior; tune via FUZZY_THRESHOLD.
const DefaultFuzzyThreshold = 70

// Match resolves a query against the dataset snapshot to a TP code. Pure
// over the snapshot: no side effects, no retained state. The dataset must
// already be normalized (see NormalizeKey).
func Match(ds *model.Dataset, q model.Query, opt model.MatchOptions) (model.Match, error) {
	if ds.Empty() {
		return model.Match{}, model.Errf(model.KindDatasetUnavailable,
			"cargo reference data is not loaded or empty")
	}
	if q.Dual() {
		return matchDual(ds, q)
	}
	if opt.Strategy == model.StrategyExactDual {
		// this strategy only answers the pair form
		return model.Match{}, model.Errf(model.KindInvalidInput,
			"both unNumber and cargoName are required")
	}

	text := NormalizeKey(q.Text)
	if text == "" {
		return model.Match{}, model.Errf(model.KindInvalidInput,
			"a UN number or cargo name is required")
	}

	// exact match on either column always takes precedence
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.UNNumber == text || r.CargoName == text {
			return resolve(r, model.MethodExact, nil)
		}
	}

	if opt.Strategy == model.StrategyFuzzySingle {
		threshold := opt.FuzzyThreshold
		if threshold <= 0 {
			threshold = DefaultFuzzyThreshold
		}
		best := -1
		var bestRec *model.CargoRecord
		for i := range ds.Records {
			r := &ds.Records[i]
			s := ratio(text, r.UNNumber)
			if n := ratio(text, r.CargoName); n > s {
				s = n
			}
			// strict ">" keeps the first-seen record on ties
			if s > best {
				best, bestRec = s, r
			}
		}
		if bestRec != nil && best > threshold {
			score := best
			return resolve(bestRec, model.MethodFuzzy, &score)
		}
	}

	return model.Match{}, model.Errf(model.KindNotFound,
		"no cargo matches %q", strings.TrimSpace(q.Text))
}

// matchDual requires one record to carry both values. If the UN number and
// the cargo name each exist in their columns but never together, that is a
// Mismatch, a different answer than NotFound.
func matchDual(ds *model.Dataset, q model.Query) (model.Match, error) {
	un := NormalizeKey(q.UNNumber)
	name := NormalizeKey(q.CargoName)
	if un == "" || name == "" {
		return model.Match{}, model.Errf(model.KindInvalidInput,
			"both the UN number and the cargo name are required")
	}

	unSeen, nameSeen := false, false
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.UNNumber == un {
			unSeen = true
		}
		if r.CargoName == name {
			nameSeen = true
		}
		if r.UNNumber == un && r.CargoName == name {
			return resolve(r, model.MethodExact, nil)
		}
	}
	if unSeen && nameSeen {
		return model.Match{}, model.Errf(model.KindMismatch,
			"UN number %q and cargo name %q both exist in the reference table, but not on the same record",
			strings.TrimSpace(q.UNNumber), strings.TrimSpace(q.CargoName))
	}
	return model.Match{}, model.Errf(model.KindNotFound,
		"no cargo matches UN number %q with cargo name %q",
		strings.TrimSpace(q.UNNumber), strings.TrimSpace(q.CargoName))
}

// resolve checks the matched record actually carries a usable TP code.
func resolve(r *model.CargoRecord, method string, score *int) (model.Match, error) {
	code := strings.TrimSpace(r.TPCode)
	if code == "" {
		return model.Match{}, model.Errf(model.KindInvalidClassification,
			"cargo %q has no TP classification in the reference table", display(r))
	}
	if !model.RecognizedTPCode(code) {
		return model.Match{}, model.Errf(model.KindInvalidClassification,
			"cargo %q carries unsupported TP classification %q", display(r), code)
	}
	return model.Match{
		TPCode:    code,
		UNNumber:  r.RawUN,
		CargoName: r.RawName,
		Method:    method,
		Score:     score,
	}, nil
}

func display(r *model.CargoRecord) string {
	if r.RawName != "" {
		return r.RawName
	}
	return r.RawUN
}
