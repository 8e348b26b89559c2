package services

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"
)

// Git drives the content repository checkout: pulling upstream changes,
// publishing authored posts, and flagging files with uncommitted edits.
type Git struct {
	Dir       string
	Remote    string
	Branch    string
	UserName  string
	UserEmail string
}

// execWithToken runs git with the remote URL rewritten to carry the
// access token, and redacts both from the returned log.
func (g *Git) execWithToken(token string, args ...string) (string, error) {
	cmdGetURL := exec.Command("git", "remote", "get-url", g.Remote)
	cmdGetURL.Dir = g.Dir
	outURL, err := cmdGetURL.Output()
	if err != nil {
		return "failed to get remote url", err
	}
	remoteURL := strings.TrimSpace(string(outURL))
	u, err := url.Parse(remoteURL)
	if err != nil {
		return "invalid remote url", err
	}
	u.User = url.UserPassword("oauth2", token)
	authenticatedURL := u.String()

	newArgs := make([]string, len(args))
	copy(newArgs, args)
	for i, v := range newArgs {
		if v == g.Remote {
			newArgs[i] = authenticatedURL
		}
	}

	cmd := exec.Command("git", newArgs...)
	cmd.Dir = g.Dir
	output, err := cmd.CombinedOutput()
	safeLog := strings.ReplaceAll(string(output), token, "***")
	safeLog = strings.ReplaceAll(safeLog, authenticatedURL, remoteURL)
	return safeLog, err
}

// Sync pulls the branch from the remote.
func (g *Git) Sync(token string) (string, error) {
	return g.execWithToken(token, "pull", g.Remote, g.Branch)
}

// Publish stages everything, commits with a timestamped message, and
// pushes. An empty commit (nothing newly authored) is not an error.
func (g *Git) Publish(token string) (string, error) {
	addCmd := exec.Command("git", "add", ".")
	addCmd.Dir = g.Dir
	if out, err := addCmd.CombinedOutput(); err != nil {
		return string(out), err
	}

	msg := fmt.Sprintf("Publish posts: %s", time.Now().Format("2006-01-02 15:04:05"))
	commitCmd := exec.Command("git",
		"-c", "user.name="+g.UserName,
		"-c", "user.email="+g.UserEmail,
		"commit", "-m", msg,
	)
	commitCmd.Dir = g.Dir
	commitCmd.Run()

	return g.execWithToken(token, "push", g.Remote, g.Branch)
}

// DirtyFiles returns repository-root-relative paths with uncommitted
// changes, normalized to forward slashes.
func (g *Git) DirtyFiles() (map[string]bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	dirty := make(map[string]bool)
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		path = strings.Trim(path, "\"")
		dirty[path] = true
	}
	return dirty, nil
}
