// Package version reports the build version of the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is overridden with -ldflags "-X .../pkg/version.Version=v1.2.3"
	Version   = "(dev)"
	buildInfo = debug.BuildInfo{}
)

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		buildInfo = *bi
		if Version == "(dev)" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			Version = bi.Main.Version
		}
	}
}

// String returns the one-line version description
func String() string {
	return fmt.Sprintf("version %s %s %s/%s", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Modules returns the module and dependency versions the binary was built with
func Modules() string {
	mod := strings.TrimRight(buildInfo.String(), "\n")
	if mod == "" {
		return String()
	}
	return "\t" + strings.ReplaceAll(mod, "\n", "\n\t")
}
