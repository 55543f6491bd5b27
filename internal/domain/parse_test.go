package domain

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *float64
	}{
		{"nil", nil, nil},
		{"number", 19.99, f(19.99)},
		{"integer number", float64(25), f(25)},
		{"plain string", "12.50", f(12.50)},
		{"dollar sign", "$1,299.00", f(1299.00)},
		{"euro sign", "€49.90", f(49.90)},
		{"spaces", " 7.25 ", f(7.25)},
		{"empty string", "", nil},
		{"only symbols", "$,", nil},
		{"garbage", "call for price", nil},
		{"bool", true, nil},
		{"object", map[string]any{"amount": 5}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.in)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("ParsePrice(%v) = %v, want %v", tt.in, got, tt.want)
			case *got != *tt.want:
				t.Errorf("ParsePrice(%v) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(12345678), "12345678"},
		{12.5, "12.5"},
		{true, "true"},
		{[]any{"x"}, ""},
	}

	for _, tt := range tests {
		if got := CoerceString(tt.in); got != tt.want {
			t.Errorf("CoerceString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoerceBool(t *testing.T) {
	if !CoerceBool(true) {
		t.Error("CoerceBool(true) = false")
	}
	for _, v := range []any{false, nil, "true", 1.0} {
		if CoerceBool(v) {
			t.Errorf("CoerceBool(%v) = true, want false", v)
		}
	}
}

// f is a test helper returning a pointer to its argument.
func f(v float64) *float64 { return &v }
