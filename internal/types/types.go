package types

// Severity is the policy weight of a finding. Only block and warn exist;
// anything that is neither does not affect the grade.
type Severity string

const (
	SevWarn  Severity = "warn"
	SevBlock Severity = "block"
)

// Finding ids emitted by the scanner and the repo checks.
const (
	IDSecretPattern         = "SECRET_PATTERN"
	IDEgressPattern         = "EGRESS_PATTERN"
	IDPromptInjection       = "PROMPT_INJECTION_PATTERN"
	IDURLSuspicious         = "URL_SUSPICIOUS"
	IDAllowlistMissing      = "ALLOWLIST_MISSING"
	IDAllowlistViolation    = "ALLOWLIST_VIOLATION"
	IDNotAGitRepo           = "NOT_A_GIT_REPO"
	IDIntegrityManifestMiss = "INTEGRITY_MANIFEST_MISSING"
	IDIntegrityMismatch     = "INTEGRITY_MISMATCH"
)

// Placeholder file names for findings without a filesystem location.
const (
	FileDiff  = "<diff>"
	FileInput = "<input>"
)

// Finding is one pattern or policy hit. Line is 1-based, or 0 when the
// location is not line-addressable (diff mode, URL hits, repo checks).
// Excerpt is already redacted and truncated.
type Finding struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Pattern  string   `json:"pattern"`
	Excerpt  string   `json:"excerpt"`
}

// Grade is the aggregate verdict over a set of findings.
type Grade string

const (
	GradePass  Grade = "PASS"
	GradeWarn  Grade = "WARN"
	GradeBlock Grade = "BLOCK"
)

// ExitCode maps a grade to the process exit status.
func (g Grade) ExitCode() int {
	switch g {
	case GradeBlock:
		return 2
	case GradeWarn:
		return 1
	default:
		return 0
	}
}
