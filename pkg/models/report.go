package models

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check names the structural property a finding belongs to.
type Check string

const (
	CheckFilename    Check = "filename"
	CheckFrontMatter Check = "frontmatter"
	CheckFences      Check = "fences"
	CheckUniqueness  Check = "uniqueness"
	CheckScripts     Check = "scripts"
	CheckMarkdown    Check = "markdown"
)

// Issue is a single validation finding against one post.
type Issue struct {
	Path     string   `json:"path"`
	Check    Check    `json:"check"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// Report is the outcome of validating the whole corpus.
type Report struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
}

// ErrorCount returns the number of error-severity issues.
func (r Report) ErrorCount() int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity issues.
func (r Report) WarningCount() int {
	return len(r.Issues) - r.ErrorCount()
}

// OK reports whether the corpus passed without errors. Warnings do not
// fail a corpus.
func (r Report) OK() bool {
	return r.ErrorCount() == 0
}
