package domain

import (
	"strconv"
	"strings"
)

// priceCutset holds the characters stripped from price text before parsing:
// common currency symbols, thousands separators, and whitespace.
const priceCutset = "$€£¥, \t"

// ParsePrice converts a decoded JSON value to a nullable price. Numbers pass
// through; numeric-looking strings are cleaned of currency symbols and
// thousands separators first. Anything unparseable yields nil, never an
// error: a bad price field degrades to "no price observed".
func ParsePrice(v any) *float64 {
	switch p := v.(type) {
	case nil:
		return nil
	case float64:
		f := p
		return &f
	case int:
		f := float64(p)
		return &f
	case int64:
		f := float64(p)
		return &f
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if strings.ContainsRune(priceCutset, r) {
				return -1
			}
			return r
		}, p)
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// CoerceString renders a decoded JSON scalar as a string. Numbers print
// without a trailing ".0" for integral values, so a numeric sku 12345678
// and the string "12345678" coerce identically. Non-scalar values coerce to
// the empty string.
func CoerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// CoerceBool returns the value only when it is literally a JSON boolean;
// everything else is false.
func CoerceBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
