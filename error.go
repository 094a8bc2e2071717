package mcwing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResult is returned by Average when no step was found and the
// settings require at least one.
var ErrEmptyResult = errors.New("no time steps found")

// ErrorList collects the errors of independent jobs. Entries may be nil.
type ErrorList []error

func (e ErrorList) Error() string {
	strs := make([]string, 0, len(e))
	for i, err := range e {
		if err != nil {
			strs = append(strs, fmt.Sprintf("case %d: %s", i, err.Error()))
		}
	}
	return strings.Join(strs, "; ")
}

// AllNil reports whether every entry is nil.
func (e ErrorList) AllNil() bool {
	for _, err := range e {
		if err != nil {
			return false
		}
	}
	return true
}

func (e ErrorList) Unwrap() []error { return e }

// SliceError is the failure of a single cross-section.
type SliceError struct {
	Column string
	Value  float64
	Err    error
}

func (s *SliceError) Error() string {
	return fmt.Sprintf("slice %s=%g: %v", s.Column, s.Value, s.Err)
}

func (s *SliceError) Unwrap() error { return s.Err }
