package logger

// OutputCategory defines a category of CLI output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// what kinds of information the CLI prints regardless of severity.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults  OutputCategory = iota // Generated source, written file list
	OutputWarnings                       // Unresolved imports, failed modules
	OutputSummary                        // Final success/failure line

	// Level 1 (-v)
	OutputProgress // One line per generated module
	OutputConfig   // Effective target, indent, parallelism

	// Level 2 (-vv)
	OutputTiming    // Per-module generation time
	OutputSkipped   // Properties omitted during reconstruction
	OutputResolving // Event handler source selection

	// Level 3 (-vvv)
	OutputDocumentDump // Decoded KIR document contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:  VerbosityUser,
	OutputWarnings: VerbosityUser,
	OutputSummary:  VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputConfig:   VerbosityInfo,

	OutputTiming:    VerbosityDebug,
	OutputSkipped:   VerbosityDebug,
	OutputResolving: VerbosityDebug,

	OutputDocumentDump: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:      "results",
	OutputWarnings:     "warnings",
	OutputSummary:      "summary",
	OutputProgress:     "progress",
	OutputConfig:       "config",
	OutputTiming:       "timing",
	OutputSkipped:      "skipped",
	OutputResolving:    "resolving",
	OutputDocumentDump: "document-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
