// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"errors"
	"strings"
)

// An Extractor returns some component of a benchmark result, such
// as its name or the run it belongs to. Results are grouped and
// split into baseline and benchmark sides by Extractors.
type Extractor func(*Result) string

// NewExtractor returns the Extractor for key, which is one of:
//
//   - ".name", the benchmark name without sub-benchmark
//     configuration, such as "Login" for "Login/users=10-8";
//   - ".fullname", the full benchmark name;
//   - "/{key}", the value of a sub-benchmark key, such as "/users".
//     "/gomaxprocs" also reads a trailing "-N";
//   - any other string, a file configuration key such as RunKey or
//     FileKey.
func NewExtractor(key string) (Extractor, error) {
	switch {
	case key == "":
		return nil, errors.New("key must not be empty")
	case key == ".name":
		return func(res *Result) string { return string(res.BaseName()) }, nil
	case key == ".fullname":
		return func(res *Result) string { return string(res.FullName) }, nil
	case key[0] == '/':
		return nameKey(key[1:]), nil
	}
	return func(res *Result) string { return res.GetFileConfig(key) }, nil
}

// nameKey extracts the value of a "/key=value" part of the benchmark
// name.
func nameKey(key string) Extractor {
	prefix := "/" + key + "="
	return func(res *Result) string {
		_, parts := res.NameParts()
		for _, part := range parts {
			if val, ok := strings.CutPrefix(string(part), prefix); ok {
				return val
			}
		}
		if key == "gomaxprocs" && len(parts) > 0 {
			if last := parts[len(parts)-1]; last[0] == '-' {
				return string(last[1:])
			}
		}
		return ""
	}
}
