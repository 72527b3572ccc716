// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchfmt reads and writes benchmark and load-test results.
//
// Two input formats are supported: the Go benchmark format,
// documented at https://golang.org/design/14313-benchmark-format, and
// semicolon-separated latency exports with one response time per
// row. Both are read as a stream of Results, so consumers can build
// whatever data model suits them.
package benchfmt

// Result is a single benchmark result and all of its measurements.
type Result struct {
	// FileConfig is the set of file-level key/value pairs in
	// effect for this result.
	//
	// Callers should not modify this directly and should instead
	// use SetFileConfig.
	//
	// This is modified in place. New keys are appended to the
	// slice. When an existing key changes value, it is updated in
	// place. When a key is deleted, its Value is set to "". As a
	// consequence, consumers can cache the indexes of keys.
	FileConfig []Config

	// FullName is the full name of this benchmark, including all
	// sub-benchmark configuration.
	FullName []byte

	// Iters is the number of iterations this benchmark's results
	// were averaged over.
	Iters int

	// Values is this benchmark's measurements and their units.
	Values []Value

	// configPos, if non-nil, maps from Config.Key to index in
	// FileConfig.
	configPos map[string]int

	// nameParts is a cache of the split parts of FullName. Its
	// length is 0 if it has not been computed.
	nameParts [][]byte
}

// Config is a single key/value configuration pair.
type Config struct {
	Key, Value string
}

// Value is a single value/unit measurement from a benchmark result.
type Value struct {
	Value float64
	Unit  string
}

// Clone makes a copy of Result that shares no state with r.
func (r *Result) Clone() *Result {
	return &Result{
		FileConfig: append([]Config(nil), r.FileConfig...),
		FullName:   append([]byte(nil), r.FullName...),
		Iters:      r.Iters,
		Values:     append([]Value(nil), r.Values...),
	}
}

// SetFileConfig sets file configuration key to value, overriding or
// adding the configuration as necessary. An empty value deletes the
// key.
func (r *Result) SetFileConfig(key, value string) {
	pos, ok := r.FileConfigIndex(key)
	if ok {
		r.FileConfig[pos].Value = value
		return
	}
	if value == "" {
		return
	}
	r.configPos[key] = len(r.FileConfig)
	r.FileConfig = append(r.FileConfig, Config{key, value})
}

// GetFileConfig returns the value of file configuration key, or "" if
// it is not set.
func (r *Result) GetFileConfig(key string) string {
	pos, ok := r.FileConfigIndex(key)
	if !ok {
		return ""
	}
	return r.FileConfig[pos].Value
}

// FileConfigIndex returns the index in r.FileConfig of key. Deleted
// keys keep their index.
func (r *Result) FileConfigIndex(key string) (pos int, ok bool) {
	if r.configPos == nil {
		r.configPos = make(map[string]int)
		for i, cfg := range r.FileConfig {
			r.configPos[cfg.Key] = i
		}
	}
	pos, ok = r.configPos[key]
	return
}

// reset clears r for reading a new input, reusing its storage, and
// sets fileConfig, an alternating sequence of keys and values.
func (r *Result) reset(fileConfig []string) {
	r.FileConfig = r.FileConfig[:0]
	clear(r.configPos)
	r.setFullName(r.FullName[:0])
	r.Iters = 0
	r.Values = r.Values[:0]
	for i := 0; i+1 < len(fileConfig); i += 2 {
		r.SetFileConfig(fileConfig[i], fileConfig[i+1])
	}
}

// setFullName replaces the full name and invalidates the name parts
// cache.
func (r *Result) setFullName(name []byte) {
	r.FullName = name
	r.nameParts = r.nameParts[:0]
}

// Value returns the measurement for the given unit.
func (r *Result) Value(unit string) (float64, bool) {
	for _, v := range r.Values {
		if v.Unit == unit {
			return v.Value, true
		}
	}
	return 0, false
}

// BaseName returns the base name of the benchmark, without any
// sub-benchmark configuration.
func (r *Result) BaseName() []byte {
	base, _ := r.NameParts()
	return base
}

// NameParts returns the base name and sub-benchmark configuration
// parts. Each sub-benchmark configuration part is one of three forms:
//
// 1. "/<key>=<value>" indicates a key/value configuration pair.
//
// 2. "/<string>" indicates a positional configuration pair.
//
// 3. "-<gomaxprocs>" indicates the GOMAXPROCS of this benchmark. This
// component can only appear last.
//
// Concatenating the base name and the configuration parts
// reconstructs the full name.
func (r *Result) NameParts() (baseName []byte, parts [][]byte) {
	if len(r.nameParts) == 0 {
		buf := r.FullName
		// First pull off any GOMAXPROCS.
		var gomaxprocs []byte
		for i := len(buf) - 1; i >= 0; i-- {
			if buf[i] == '-' && i < len(buf)-1 {
				gomaxprocs, buf = buf[i:], buf[:i]
				break
			} else if !('0' <= buf[i] && buf[i] <= '9') {
				break
			}
		}
		// Split the remaining parts.
		prev := 0
		for i, c := range buf {
			if c == '/' {
				r.nameParts = append(r.nameParts, buf[prev:i])
				prev = i
			}
		}
		r.nameParts = append(r.nameParts, buf[prev:])
		if gomaxprocs != nil {
			r.nameParts = append(r.nameParts, gomaxprocs)
		}
	}
	return r.nameParts[0], r.nameParts[1:]
}
