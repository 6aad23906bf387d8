package version

import (
	"runtime"
	"strings"
)

// Info is the machine-readable form printed by `netc version --format json`.
type Info struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Collect returns build info; commit and date are filled only when asked
// for, as "unknown" if the build did not record them.
func Collect(withCommit, withDate bool) Info {
	info := Info{Tool: "netc", Version: Version, GoVersion: runtime.Version()}
	if withCommit {
		info.GitCommit = orUnknown(GitCommit)
	}
	if withDate {
		info.BuildDate = orUnknown(BuildDate)
	}
	return info
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "unknown"
}
