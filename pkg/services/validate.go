package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"postcms/pkg/models"
)

// Validator checks the structural properties the corpus has to satisfy
// for the external generator: parseable front matter with the required
// contract fields, valid date-prefixed filenames, well-formed fenced
// code blocks, and filename uniqueness. Assets and Renderer are
// optional; when present they add warning-level checks.
type Validator struct {
	Corpus   *Corpus
	Assets   *Assets
	Renderer *Renderer
}

// Run validates every post and returns the aggregated report. Findings
// never abort the run; a broken post is a report entry, not a failure
// of validation itself.
func (v *Validator) Run() (models.Report, error) {
	var report models.Report
	names := map[string][]string{}

	err := filepath.WalkDir(v.Corpus.Dir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		relPath, _ := filepath.Rel(v.Corpus.Dir(), path)
		relPath = filepath.ToSlash(relPath)
		report.Checked++
		names[d.Name()] = append(names[d.Name()], relPath)

		report.Issues = append(report.Issues, v.checkPost(path, relPath, d.Name())...)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil
		}
		return report, fmt.Errorf("walk posts dir: %w", err)
	}

	// Filename uniqueness holds across subdirectories: the date+slug
	// pair is the post identity regardless of where the file lives.
	for name, paths := range names {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		report.Issues = append(report.Issues, models.Issue{
			Path:     paths[0],
			Check:    models.CheckUniqueness,
			Severity: models.SeverityError,
			Message:  fmt.Sprintf("filename %s used by %d posts: %s", name, len(paths), strings.Join(paths, ", ")),
		})
	}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		if report.Issues[i].Path != report.Issues[j].Path {
			return report.Issues[i].Path < report.Issues[j].Path
		}
		return report.Issues[i].Check < report.Issues[j].Check
	})
	return report, nil
}

func (v *Validator) checkPost(fullPath, relPath, name string) []models.Issue {
	var issues []models.Issue

	if _, _, err := ParsePostName(name); err != nil {
		issues = append(issues, models.Issue{
			Path:     relPath,
			Check:    models.CheckFilename,
			Severity: models.SeverityError,
			Message:  err.Error(),
		})
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		issues = append(issues, models.Issue{
			Path:     relPath,
			Check:    models.CheckFrontMatter,
			Severity: models.SeverityError,
			Message:  fmt.Sprintf("unreadable: %v", err),
		})
		return issues
	}

	fm, body, _, fmErr := ParseFrontMatter(content)
	if fmErr != nil {
		issues = append(issues, models.Issue{
			Path:     relPath,
			Check:    models.CheckFrontMatter,
			Severity: models.SeverityError,
			Message:  fmErr.Error(),
		})
		// Fence scanning still applies to the raw text.
		body = string(content)
	} else {
		issues = append(issues, v.checkFrontMatter(relPath, fm)...)
	}

	if line := unclosedFence(body); line > 0 {
		issues = append(issues, models.Issue{
			Path:     relPath,
			Check:    models.CheckFences,
			Severity: models.SeverityError,
			Line:     line,
			Message:  "fenced code block is never closed",
		})
	}

	if fmErr == nil && v.Renderer != nil {
		if _, err := v.Renderer.Render([]byte(body)); err != nil {
			issues = append(issues, models.Issue{
				Path:     relPath,
				Check:    models.CheckMarkdown,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("markdown does not render: %v", err),
			})
		}
	}

	return issues
}

func (v *Validator) checkFrontMatter(relPath string, fm models.FrontMatter) []models.Issue {
	var issues []models.Issue

	err := validation.ValidateStruct(&fm,
		validation.Field(&fm.Layout, validation.Required),
		validation.Field(&fm.Category, validation.Required),
	)
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for field := range fieldErrs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			issues = append(issues, models.Issue{
				Path:     relPath,
				Check:    models.CheckFrontMatter,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("%s: %v", field, fieldErrs[field]),
			})
		}
	}

	if fm.CustomJS != "" && v.Assets != nil {
		if _, err := v.Assets.Resolve(fm.CustomJS); errors.Is(err, ErrScriptNotFound) {
			issues = append(issues, models.Issue{
				Path:     relPath,
				Check:    models.CheckScripts,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("custom_js %q has no bundle in the scripts dir", fm.CustomJS),
			})
		}
	}

	return issues
}
