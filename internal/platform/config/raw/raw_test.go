package raw

import (
	"testing"
)

// Test Get with prefixing and trimming
func TestConfGet(t *testing.T) {
	t.Setenv("APP_NAME", " gitcensus ")
	t.Setenv("CENSUS_SINK", " csv ")

	root := New()
	census := root.Prefix("CENSUS_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root no default used", conf: root, key: "APP_NAME", def: "x", want: "gitcensus"},
		{name: "prefixed hit", conf: census, key: "SINK", def: "x", want: "csv"},
		{name: "missing returns default", conf: census, key: "MISSING", def: "defv", want: "defv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.conf.Get(tt.key, tt.def)
			if got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// Test GetBool with truthy and falsy variants and defaults
func TestConfGetBool(t *testing.T) {
	c := New().Prefix("CENSUS_")

	t.Setenv("CENSUS_T1", "true")
	t.Setenv("CENSUS_T2", "1")
	t.Setenv("CENSUS_T3", "YES")
	t.Setenv("CENSUS_F1", "false")
	t.Setenv("CENSUS_F2", "0")
	t.Setenv("CENSUS_F3", "no")
	t.Setenv("CENSUS_WS", "   true   ")

	tests := []struct {
		name string
		key  string
		def  bool
		want bool
	}{
		{name: "true", key: "T1", def: false, want: true},
		{name: "1", key: "T2", def: false, want: true},
		{name: "YES", key: "T3", def: false, want: true},
		{name: "false", key: "F1", def: true, want: false},
		{name: "0", key: "F2", def: true, want: false},
		{name: "no", key: "F3", def: true, want: false},
		{name: "whitespace trimmed", key: "WS", def: false, want: true},
		{name: "missing uses default true", key: "MISSING", def: true, want: true},
		{name: "missing uses default false", key: "MISSING2", def: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.GetBool(tt.key, tt.def); got != tt.want {
				t.Fatalf("GetBool(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

// Test GetInt with numeric, non numeric, negative, and defaults
func TestConfGetInt(t *testing.T) {
	c := New().Prefix("CENSUS_")

	t.Setenv("CENSUS_OK", "42")
	t.Setenv("CENSUS_WSOK", "  7 ")
	t.Setenv("CENSUS_BAD", "4x2")
	t.Setenv("CENSUS_NEG", "-3")

	tests := []struct {
		name string
		key  string
		def  int
		want int
	}{
		{name: "numeric", key: "OK", def: 1, want: 42},
		{name: "trimmed numeric", key: "WSOK", def: 1, want: 7},
		{name: "non numeric falls back", key: "BAD", def: 5, want: 5},
		{name: "negative falls back", key: "NEG", def: 5, want: 5},
		{name: "missing falls back", key: "MISSING", def: 9, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.GetInt(tt.key, tt.def); got != tt.want {
				t.Fatalf("GetInt(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}
