package kickstart

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Create a project from a template"
	MsgValidateShort   = "Check a template's definition without generating anything"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgCloning        = "Cloning %s"
	MsgGenerated      = "Project generated in %s"
	MsgSummary        = "%s rendered, %s copied, %s directories, %s ignored, %s removed by cleanup\n"
	MsgRemovedItem    = "  - %s\n"
	MsgValid          = "%s is valid: %d variable(s), %d ignore entr(ies), %d copy pattern(s), %d cleanup rule(s)\n"
	MsgProblemsHeader = "%s has %d problem(s):\n"
	MsgWarningsHeader = "%s has %d warning(s):\n"
	MsgProblemItem    = "  - %s\n"
	MsgNonInteractive = "Standard input is not a terminal; answering every question with its default"
	MsgVersionFormat  = "kickstart version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrBadSet  = "--set expects name=value, got %q"
	MsgErrReadDef = "cannot read %s"

	// Validation warnings
	MsgFunctionName = "%s is also a template function; read the answer as {{ .%s }}"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagOutput  = "Directory to generate the project in"
	MsgFlagSubDir  = "Template directory inside the source"
	MsgFlagBranch  = "Branch to clone for Git sources"
	MsgFlagNoInput = "Do not ask questions; use defaults and --set answers"
	MsgFlagSet     = "Answer a question up front, as name=value (repeatable)"
	MsgFlagAtomic  = "Generate into a staging directory and move it into place on success"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/validate-long.txt
	msgValidateLongRaw string
	MsgValidateLong    = strings.TrimSpace(msgValidateLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
