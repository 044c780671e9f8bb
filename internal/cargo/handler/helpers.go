package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"tankfill-service/internal/cargo/model"
	"tankfill-service/internal/utils"
)

// Upstream form revisions disagreed on field casing, so lookups over the
// decoded body are case-insensitive and numbers may arrive as strings.

func decodeBody(r *http.Request) (map[string]any, *model.DomainError) {
	defer r.Body.Close()
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, model.Errf(model.KindInvalidInput, "malformed JSON body: %v", err)
	}
	return body, nil
}

func field(body map[string]any, name string) (any, bool) {
	if v, ok := body[name]; ok {
		return v, true
	}
	for k, v := range body {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func floatField(body map[string]any, name string) (float64, bool) {
	v, ok := field(body, name)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case string:
		return utils.ParseFlexFloat(t)
	}
	return 0, false
}

func stringField(body map[string]any, name string) string {
	v, ok := field(body, name)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		// UN numbers occasionally arrive as bare numbers
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// parseRequest pulls the calculation fields and the cargo identifier out of
// the raw body. A present pair beats cargoInfo; a lone pair half degrades to
// single-field text.
func parseRequest(body map[string]any) (model.CalculationInput, model.Query, *model.DomainError) {
	var in model.CalculationInput
	var q model.Query

	var ok bool
	if in.Density15, ok = floatField(body, "density15"); !ok {
		return in, q, model.Errf(model.KindInvalidInput, "density15 is required and must be numeric")
	}
	if in.Density50, ok = floatField(body, "density50"); !ok {
		return in, q, model.Errf(model.KindInvalidInput, "density50 is required and must be numeric")
	}
	if in.Density50 == 0 {
		return in, q, model.Errf(model.KindInvalidInput, "density50 must not be zero")
	}
	if in.TankCapacity, ok = floatField(body, "tankCapacity"); !ok {
		return in, q, model.Errf(model.KindInvalidInput, "tankCapacity is required and must be numeric")
	}

	un := stringField(body, "unNumber")
	name := stringField(body, "cargoName")
	info := stringField(body, "cargoInfo")
	switch {
	case un != "" && name != "":
		q = model.Query{UNNumber: un, CargoName: name}
	case info != "":
		q = model.Query{Text: info}
	case un != "":
		q = model.Query{Text: un}
	case name != "":
		q = model.Query{Text: name}
	default:
		return in, q, model.Errf(model.KindInvalidInput,
			"a cargo identifier is required: cargoInfo, or unNumber with cargoName")
	}
	return in, q, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the domain error taxonomy to transport codes. This mapping
// is a boundary decision; the core only reports kinds.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindInvalidInput:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindMismatch, model.KindInvalidClassification:
		return http.StatusUnprocessableEntity
	case model.KindDatasetUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
