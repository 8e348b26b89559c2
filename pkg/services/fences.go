package services

import "strings"

// unclosedFence reports the 1-based line number of a fenced code block
// opener that never gets a closing delimiter, or 0 when every fence is
// closed. The scan runs over raw lines rather than the parsed AST:
// goldmark silently closes a dangling fence at end of input, so the
// defect is invisible after parsing.
func unclosedFence(body string) int {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var (
		open     bool
		openLine int
		fenceCh  byte
		fenceLen int
	)

	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		// CommonMark allows up to three spaces of indentation before a
		// fence; more makes it an indented code line.
		if len(line)-len(trimmed) > 3 {
			continue
		}

		ch, run := fenceRun(trimmed)
		if run < 3 {
			continue
		}

		if !open {
			open = true
			openLine = i + 1
			fenceCh = ch
			fenceLen = run
			continue
		}

		// A closer must use the same character, be at least as long as
		// the opener, and carry nothing but whitespace after the run.
		if ch == fenceCh && run >= fenceLen && strings.TrimSpace(trimmed[run:]) == "" {
			open = false
		}
	}

	if open {
		return openLine
	}
	return 0
}

// fenceRun returns the fence character and the length of its leading
// run, when the line starts with backticks or tildes.
func fenceRun(line string) (byte, int) {
	if line == "" {
		return 0, 0
	}
	ch := line[0]
	if ch != '`' && ch != '~' {
		return 0, 0
	}
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}
	return ch, n
}
