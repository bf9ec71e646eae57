package keys

import (
	"regexp"
	"testing"
)

func TestCrosswalk_DeterministicAndSafe(t *testing.T) {
	k1 := Crosswalk("53393589", 8)
	k2 := Crosswalk(" 53393589 ", 8)
	if k1 != k2 {
		t.Fatalf("surrounding space must not change key:\n k1=%s\n k2=%s", k1, k2)
	}
	if k1 != "xwalk:h3:8:53393589" {
		t.Fatalf("unexpected key %s", k1)
	}
	if !regexp.MustCompile(`^[a-z0-9:]+$`).MatchString(k1) {
		t.Fatalf("key contains disallowed characters: %s", k1)
	}
}

func TestCrosswalk_ResolutionSeparatesKeys(t *testing.T) {
	if Crosswalk("5339", 7) == Crosswalk("5339", 8) {
		t.Fatal("different resolutions must produce different keys")
	}
}
