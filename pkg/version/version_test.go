package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "version "+Version) {
		t.Errorf("String() = %q, want version prefix", s)
	}
	if !strings.Contains(s, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("String() = %q, want platform", s)
	}
}

func TestModules(t *testing.T) {
	if Modules() == "" {
		t.Error("Modules() returned empty string")
	}
}
