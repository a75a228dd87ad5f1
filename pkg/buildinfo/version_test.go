package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: ", "commit: ", "built: "} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q: %s", want, s)
		}
	}
}

func TestCacheScope(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "dev"
	if got := CacheScope(); got != "dev:" {
		t.Errorf("CacheScope() = %q, want dev:", got)
	}
	Version = "v1.2.3"
	if got := CacheScope(); got != "v1.2.3:" {
		t.Errorf("CacheScope() = %q, want v1.2.3:", got)
	}
}
