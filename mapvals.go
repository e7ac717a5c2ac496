package main

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// NewMapVals decodes a request body. Bodies that are empty or not a JSON
// object behave like an empty object.
func NewMapVals(buf []byte) (*MapVals, error) {
	ret := &MapVals{m: make(map[string]interface{}, 0)}
	if len(bytes.TrimSpace(buf)) == 0 {
		return ret, nil
	}
	var v interface{}
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, ErrInvalidJSON
	}
	if m, ok := v.(map[string]interface{}); ok {
		ret.m = m
	}
	return ret, nil
}

type MapVals struct {
	m map[string]interface{}
}

// Truthy reports whether the field is present and not a zero value in the
// loose sense clients expect: "", 0, false and null are all unset.
func (me *MapVals) Truthy(name string) bool {
	switch v := me.m[name].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	}
	return true
}

// String returns the sanitized string value of a field.
func (me *MapVals) String(name string) (string, error) {
	return Sanitize(me.m[name])
}

// Int returns the leading integer of a numeric or string field, or def when
// there is none or it is zero.
func (me *MapVals) Int(name string, def int) int {
	var n int
	switch v := me.m[name].(type) {
	case float64:
		n = int(v)
	case string:
		n = leadingInt(v)
	}
	if n == 0 {
		return def
	}
	return n
}

func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
