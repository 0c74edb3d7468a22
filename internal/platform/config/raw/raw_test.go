package raw

import "testing"

func TestPrefixAndGetters(t *testing.T) {
	t.Setenv("LOG_LEVEL", "  warn ")
	t.Setenv("LOG_CALLER", "YES")
	t.Setenv("LOG_SAMPLE_EVERY", "7")
	t.Setenv("LOG_BAD_INT", "7x")
	t.Setenv("LOG_NEG", "-3")

	rc := New().Prefix("LOG_")
	if got := rc.Get("LEVEL", "info"); got != "warn" {
		t.Fatalf("Get = %q", got)
	}
	if got := rc.Get("MISSING", "info"); got != "info" {
		t.Fatalf("Get default = %q", got)
	}
	if !rc.GetBool("CALLER", false) {
		t.Fatalf("GetBool should accept YES")
	}
	if !rc.GetBool("MISSING", true) {
		t.Fatalf("GetBool default")
	}
	if rc.GetInt("SAMPLE_EVERY", 0) != 7 {
		t.Fatalf("GetInt parse")
	}
	if rc.GetInt("BAD_INT", 3) != 3 || rc.GetInt("NEG", 3) != 3 {
		t.Fatalf("GetInt should fall back on junk")
	}
}
