// Package flexjson provides scalar types that tolerate the mixed JSON
// encodings the SOOP APIs emit: numbers as numbers or strings, booleans
// as booleans, numbers, or strings.
package flexjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Uint decodes from a JSON number or a numeric string.
type Uint uint64

// UnmarshalJSON implements json.Unmarshaler.
func (u *Uint) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("flexjson: %q is not an unsigned integer", s)
	}
	*u = Uint(n)
	return nil
}

// Int decodes from a JSON number or a numeric string.
type Int int64

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("flexjson: %q is not an integer", s)
	}
	*i = Int(n)
	return nil
}

// Bool decodes from a JSON bool, a number (non-zero is true), or the
// strings "true"/"false"/"1"/"0" in any case.
type Bool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*b = false
	case bool:
		*b = Bool(t)
	case float64:
		*b = t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			*b = true
		case "false", "0", "":
			*b = false
		default:
			return fmt.Errorf("flexjson: %q is not a boolean", t)
		}
	default:
		return fmt.Errorf("flexjson: unsupported boolean encoding %T", v)
	}
	return nil
}
