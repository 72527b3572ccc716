// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSample is matched (via errors.Is) by every
	// *InvalidSampleError.
	ErrInvalidSample = errors.New("invalid sample")

	// ErrConfiguration is matched (via errors.Is) by every
	// *ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrMissingSide indicates a group has values for only one of
	// the two compared sides.
	ErrMissingSide = errors.New("missing baseline or benchmark values")
)

// An InvalidSampleError reports a sample that cannot be turned into a
// Distribution: it is empty, or contains a non-finite or (unless
// allowed) negative value.
type InvalidSampleError struct {
	// Index is the position of the offending value, or -1 if the
	// sample as a whole is at fault.
	Index  int
	Value  float64
	Reason string
}

func (e *InvalidSampleError) Error() string {
	if e.Index < 0 {
		return "invalid sample: " + e.Reason
	}
	return fmt.Sprintf("invalid sample: value %v at index %d is %s", e.Value, e.Index, e.Reason)
}

func (e *InvalidSampleError) Is(target error) bool {
	return target == ErrInvalidSample
}

// A ConfigurationError reports a weight, scale, grid or rank boundary
// that is out of its valid range. It is returned when a Comparer or
// Normalizer is constructed, never during a comparison.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
