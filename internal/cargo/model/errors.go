package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the recoverable outcomes of a lookup/calculation.
// These are expected end states, not faults: NotFound just means the caller
// asked about a cargo outside the reference domain.
type ErrorKind string

const (
	KindInvalidInput               ErrorKind = "InvalidInput"
	KindDatasetUnavailable         ErrorKind = "DatasetUnavailable"
	KindNotFound                   ErrorKind = "NotFound"
	KindMismatch                   ErrorKind = "Mismatch"
	KindInvalidClassification      ErrorKind = "InvalidClassification"
	KindUnrecognizedClassification ErrorKind = "UnrecognizedClassification"
)

type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string { return string(e.Kind) + ": " + e.Message }

func Errf(kind ErrorKind, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf unwraps the kind from an error chain; ok is false for plain errors.
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
