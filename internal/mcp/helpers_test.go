package mcp

import (
	"testing"
)

func TestAsString(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"Nil", nil, ""},
		{"String", "hello", "hello"},
		{"Float", 42.0, "42"},
		{"Bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asString(tt.input); got != tt.expected {
				t.Errorf("asString(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int
	}{
		{"Nil", nil, 0},
		{"JSONNumber", 30.0, 30},
		{"Int", 7, 7},
		{"NumericString", "12", 12},
		{"Garbage", []string{"x"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asInt(tt.input); got != tt.expected {
				t.Errorf("asInt(%v) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
	}{
		{"Nil", nil, 0},
		{"Float", 1.25, 1.25},
		{"Int", 3, 3},
		{"NumericString", "0.5", 0.5},
		{"Garbage", map[string]int{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asFloat(tt.input); got != tt.expected {
				t.Errorf("asFloat(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-06-02")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if d.Year() != 2025 || d.Month() != 6 || d.Day() != 2 {
		t.Errorf("parsed %v, want 2025-06-02", d)
	}

	for _, bad := range []string{"", "06/02/2025", "2025-13-01", "soon"} {
		if _, err := parseDate(bad); err == nil {
			t.Errorf("parseDate(%q) accepted invalid input", bad)
		}
	}
}

func TestDecodeInto(t *testing.T) {
	src := map[string]interface{}{
		"propagation_rate": 0.9,
		"decay_rate":       0.05,
	}

	var out struct {
		PropagationRate float64 `json:"propagation_rate"`
		DecayRate       float64 `json:"decay_rate"`
	}
	if err := decodeInto(src, &out); err != nil {
		t.Fatalf("decodeInto: %v", err)
	}
	if out.PropagationRate != 0.9 || out.DecayRate != 0.05 {
		t.Errorf("decoded %+v", out)
	}

	if err := decodeInto("not an object", &out); err == nil {
		t.Error("expected error decoding a string into a struct")
	}
}
