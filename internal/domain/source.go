package domain

import (
	"errors"
	"fmt"
)

// Source is the provenance of a professional record.
type Source string

// Known sources.
const (
	SourceDirect   Source = "direct"
	SourcePartner  Source = "partner"
	SourceInternal Source = "internal"
)

// Sources lists every valid source in display order.
var Sources = []Source{SourceDirect, SourcePartner, SourceInternal}

// ErrInvalidSource is returned when a value is not one of the known sources.
var ErrInvalidSource = errors.New("invalid source")

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceDirect, SourcePartner, SourceInternal:
		return true
	}
	return false
}

// Label returns the human-readable name shown in select controls.
func (s Source) Label() string {
	switch s {
	case SourceDirect:
		return "Direct"
	case SourcePartner:
		return "Partner"
	case SourceInternal:
		return "Internal"
	}
	return string(s)
}

// ParseSource converts v into a Source.
func ParseSource(v string) (Source, error) {
	s := Source(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, v)
	}
	return s, nil
}

// ParseFilter converts v into a listing filter. The empty string means no
// filter and is accepted.
func ParseFilter(v string) (Source, error) {
	if v == "" {
		return "", nil
	}
	return ParseSource(v)
}
