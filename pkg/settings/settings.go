// Package settings provides build metadata, per-run options, and context
// helpers shared by the tabc CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "tabc"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the options of a single invocation after flags and the config
// file have been merged.
type Run struct {
	MinLogLevel int8
	LogFormat   string
	LogFile     string
	ConfigPath  string
	CatalogPath string
	Backend     string
	Mode        string
	Watch       bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used before any configuration is read.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Backend:     "expr",
		Mode:        "replace-tail",
		ExitOnError: true,
	}
}
