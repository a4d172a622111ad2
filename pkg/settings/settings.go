// Package settings provides build metadata, per-run CLI settings, and
// context helpers shared by the esqlc commands.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "esqlc"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// SchemaSettings tells where fields, sources and policies come from.
type SchemaSettings struct {
	// Path of a schema file; "-" is stdin, empty means no schema.
	Path string
	// FromFlag is set when Path came from --schema rather than config.
	FromFlag bool
}

// Run holds the settings of a single CLI invocation.
type Run struct {
	MinLogLevel int8
	Schema      SchemaSettings
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the default settings of a CLI run.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		ExitOnError: true,
	}
}
