package dtmf

import (
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
)

// Set at build time via `-ldflags "-X 'github.com/doismellburning/dtmfcodec/src.Version=X'"`
var Version string

func buildSetting(bi *debug.BuildInfo, key string, defaultValue string) string {
	if bi == nil {
		return defaultValue
	}

	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return defaultValue
}

// versionString describes the build: release, VCS revision and build time.
func versionString(bi *debug.BuildInfo) string {
	var (
		commit          = buildSetting(bi, "vcs.revision", "UNKNOWN")
		dirtyStr        = buildSetting(bi, "vcs.modified", "false")
		dirty, dirtyErr = strconv.ParseBool(dirtyStr)
		builtAt         = buildSetting(bi, "vcs.time", "UNKNOWN")
		version         = Version
	)

	if dirty {
		commit += "-DIRTY"
	} else if dirtyErr != nil {
		commit += "-UNKNOWNDIRTY"
	}

	if version == "" {
		version = "!UNKNOWN!"
	}

	return fmt.Sprintf("dtmfcodec - Version %s (revision %s, built at %s)", version, commit, builtAt)
}

func printVersion(w io.Writer) {
	var bi, _ = debug.ReadBuildInfo()

	fmt.Fprintln(w, versionString(bi))
}
