package config

import (
	"testing"
	"time"

	kit "gitcensus/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	census := root.Prefix("CENSUS_")
	if got := census.key("WORKERS"); got != "CENSUS_WORKERS" {
		t.Fatalf("key() = %q, want %q", got, "CENSUS_WORKERS")
	}
	// nested prefix
	gh := census.Prefix("GH_")
	if got := gh.key("TOKENS"); got != "CENSUS_GH_TOKENS" {
		t.Fatalf("nested key() = %q, want %q", got, "CENSUS_GH_TOKENS")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  gitcensus ")
	got := c.MustString("NAME")
	if got != "gitcensus" {
		t.Fatalf("MustString = %q, want %q", got, "gitcensus")
	}

	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q, want %q", got, "def")
	}
	t.Setenv("S_NAME", " gitcensus ")
	if got := c.MayString("NAME", "x"); got != "gitcensus" {
		t.Fatalf("MayString value = %q, want %q", got, "gitcensus")
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d, want 9", got)
	}
	t.Setenv("I_WORKERS", " 8 ")
	if got := c.MayInt("WORKERS", 1); got != 8 {
		t.Fatalf("MayInt = %d, want 8", got)
	}
	t.Setenv("I_BAD", "x")
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt invalid = %d, want default 3", got)
	}
}

func TestMayFloat64(t *testing.T) {
	c := New().Prefix("F_")
	if got := c.MayFloat64("MISSING", 1.5); got != 1.5 {
		t.Fatalf("MayFloat64 default = %v, want 1.5", got)
	}
	t.Setenv("F_RPS", "2.25")
	if got := c.MayFloat64("RPS", 1); got != 2.25 {
		t.Fatalf("MayFloat64 = %v, want 2.25", got)
	}
	t.Setenv("F_BAD", "fast")
	if got := c.MayFloat64("BAD", 0.5); got != 0.5 {
		t.Fatalf("MayFloat64 invalid = %v, want default 0.5", got)
	}
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("B_")
	if !c.MayBool("MISSING", true) {
		t.Fatalf("MayBool default true expected")
	}
	t.Setenv("B_ON", " true ")
	if !c.MayBool("ON", false) {
		t.Fatalf("MayBool true expected")
	}
	t.Setenv("B_BAD", "notabool")
	if c.MayBool("BAD", false) {
		t.Fatalf("MayBool invalid should use default")
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("D_")
	if got := c.MayDuration("MISSING", time.Second); got != time.Second {
		t.Fatalf("MayDuration default = %v, want 1s", got)
	}
	t.Setenv("D_DELAY", " 250ms ")
	if got := c.MayDuration("DELAY", 0); got != 250*time.Millisecond {
		t.Fatalf("MayDuration = %v, want 250ms", got)
	}
	t.Setenv("D_BAD", "nope")
	if got := c.MayDuration("BAD", 2*time.Second); got != 2*time.Second {
		t.Fatalf("MayDuration invalid = %v, want default 2s", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("C_")
	def := []string{"a"}
	if got := c.MayCSV("MISSING", def); len(got) != 1 || got[0] != "a" {
		t.Fatalf("MayCSV default = %v", got)
	}
	t.Setenv("C_TOKENS", " tok1 , tok2 ,, ")
	got := c.MayCSV("TOKENS", nil)
	if len(got) != 2 || got[0] != "tok1" || got[1] != "tok2" {
		t.Fatalf("MayCSV = %v, want [tok1 tok2]", got)
	}
	t.Setenv("C_EMPTY", " , , ")
	if got := c.MayCSV("EMPTY", def); len(got) != 1 || got[0] != "a" {
		t.Fatalf("MayCSV all-blank should fall back, got %v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISSING", "csv", "csv", "postgres", "clickhouse"); got != "csv" {
		t.Fatalf("MayEnum default = %q, want csv", got)
	}
	t.Setenv("E_SINK", "Postgres")
	if got := c.MayEnum("SINK", "csv", "csv", "postgres", "clickhouse"); got != "Postgres" {
		t.Fatalf("MayEnum case-insensitive match = %q", got)
	}
	t.Setenv("E_BAD", "mysql")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "csv", "csv", "postgres", "clickhouse") })
}
