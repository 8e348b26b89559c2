package services

import (
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Generator shells out to the external static-site generator. The
// corpus is only its input; nothing here interprets what the tool does
// with layouts or templates.
type Generator struct {
	Dir     string // site root the generator runs in
	Command string
	Args    []string
}

// Build runs the generator and returns its combined output.
func (g *Generator) Build() (string, error) {
	if g.Command == "" {
		return "", fmt.Errorf("no generator command configured")
	}

	logrus.WithFields(logrus.Fields{
		"command": g.Command,
		"args":    g.Args,
		"dir":     g.Dir,
	}).Info("running site generator")

	cmd := exec.Command(g.Command, g.Args...)
	cmd.Dir = g.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("generator %s: %w", g.Command, err)
	}
	return string(output), nil
}
