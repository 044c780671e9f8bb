package service

import (
	"math"

	"tankfill-service/internal/cargo/model"
)

// tempSpanC is the span between the two density reference temperatures,
// 50°C − 15°C. It appears both in the thermal expansion coefficient and in
// the filling formula.
const tempSpanC = 50 - 15

// Maximum filling coefficients in percent, per TP classification.
const (
	fillingCoefTP1 = 97.0
	fillingCoefTP2 = 95.0
)

// Calculate applies the maximum filling ratio formula:
//
//	alpha   = (d15 - d50) / (d50 * tempSpanC)
//	filling = coef / (1 + alpha*tempSpanC)     coef 97 for TP1, 95 for TP2
//	volume  = capacity * filling / 100
//	mass    = volume * d15
//
// Deterministic and stateless: identical inputs give identical outputs.
func Calculate(in model.CalculationInput) (model.CalculationResult, error) {
	if in.Density50 == 0 {
		return model.CalculationResult{}, model.Errf(model.KindInvalidInput,
			"density50 must not be zero")
	}
	if !positiveFinite(in.Density15) || !positiveFinite(in.Density50) || !positiveFinite(in.TankCapacity) {
		return model.CalculationResult{}, model.Errf(model.KindInvalidInput,
			"density15, density50 and tankCapacity must be positive numbers")
	}

	var coef float64
	switch in.TPCode {
	case model.TP1:
		coef = fillingCoefTP1
	case model.TP2:
		coef = fillingCoefTP2
	default:
		// unreachable when the matcher and this switch share the recognized
		// set, but never default silently
		return model.CalculationResult{}, model.Errf(model.KindUnrecognizedClassification,
			"TP classification %q is not supported by the filling formula", in.TPCode)
	}

	alpha := (in.Density15 - in.Density50) / (in.Density50 * tempSpanC)
	filling := coef / (1 + alpha*tempSpanC)
	volume := in.TankCapacity * filling / 100
	return model.CalculationResult{
		FillingPercentage: filling,
		PermittedVolume:   volume,
		PermittedMass:     volume * in.Density15,
	}, nil
}

func positiveFinite(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
