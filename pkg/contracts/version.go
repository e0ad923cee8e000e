package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	// Version is the release of the vaxclean tool
	Version = "1.0.0"

	// DataFormatVersion identifies the cleaned output layout: which derived
	// columns are appended and in what order. It is bumped whenever that
	// layout changes and is recorded in every run summary.
	DataFormatVersion = "v1"
)

// Set with -ldflags "-X vaxclean/pkg/contracts.GitCommit=... -X vaxclean/pkg/contracts.BuildTime=...".
// When empty, the VCS stamp embedded by the Go toolchain is used.
var (
	GitCommit string
	BuildTime string
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version    string `json:"version"`
	DataFormat string `json:"data_format"`
	Commit     string `json:"commit,omitempty"`
	BuiltAt    string `json:"built_at,omitempty"`
	Modified   bool   `json:"modified,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// CurrentBuild returns the build information of this binary
func CurrentBuild() BuildInfo {
	info := BuildInfo{
		Version:    Version,
		DataFormat: DataFormatVersion,
		Commit:     GitCommit,
		BuiltAt:    BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuiltAt == "" {
				info.BuiltAt = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns the first 12 characters of the commit, marked when
// the working tree had local changes
func (b BuildInfo) ShortCommit() string {
	commit := b.Commit
	if commit == "" {
		return "unknown"
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if b.Modified {
		commit += "-dirty"
	}
	return commit
}

// String renders the -version output
func (b BuildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "vaxclean %s (output format %s)\n", b.Version, b.DataFormat)
	fmt.Fprintf(&sb, "commit %s", b.ShortCommit())
	if b.BuiltAt != "" {
		fmt.Fprintf(&sb, ", built %s", b.BuiltAt)
	}
	fmt.Fprintf(&sb, "\n%s %s", b.GoVersion, b.Platform)
	return sb.String()
}
