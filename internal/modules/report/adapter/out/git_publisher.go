package out

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	reportout "blazectl/internal/modules/report/port/out"
)

const (
	gitTimeout     = 30 * time.Second
	commitInterval = 24 * time.Hour
)

type gitRunner func(ctx context.Context, dir string, args ...string) (string, error)

// GitPublisher commits the generated files at most once per rolling day,
// measured from the latest commit.
type GitPublisher struct {
	root    string
	paths   []string
	enabled bool
	run     gitRunner
}

func NewGitPublisher(root string, paths []string, enabled bool) reportout.Publisher {
	return &GitPublisher{root: root, paths: paths, enabled: enabled, run: runGit}
}

func CommitMessage(now time.Time) string {
	return fmt.Sprintf("blazectl: update (%s UTC)", now.UTC().Format(time.DateOnly))
}

func (p *GitPublisher) Publish(ctx context.Context, now time.Time) (bool, string, error) {
	if !p.enabled || !isGitRepo(p.root) {
		return false, "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	if last, ok := p.lastCommit(ctx); ok && now.Sub(last) < commitInterval {
		return false, "", nil
	}

	args := []string{"add", "--"}
	staged := 0
	for _, path := range p.paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			rel = path
		}
		args = append(args, filepath.ToSlash(rel))
		staged++
	}
	if staged == 0 {
		return false, "", nil
	}
	if _, err := p.run(ctx, p.root, args...); err != nil {
		return false, "", fmt.Errorf("git add: %w", err)
	}
	// exit 0 means nothing is staged
	if _, err := p.run(ctx, p.root, "diff", "--cached", "--quiet"); err == nil {
		return false, "", nil
	}
	msg := CommitMessage(now)
	if _, err := p.run(ctx, p.root, "commit", "-m", msg); err != nil {
		return false, "", fmt.Errorf("git commit: %w", err)
	}
	return true, msg, nil
}

func (p *GitPublisher) lastCommit(ctx context.Context) (time.Time, bool) {
	out, err := p.run(ctx, p.root, "log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

func isGitRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
