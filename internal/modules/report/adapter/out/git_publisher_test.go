package out

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	lastCommit string
	staged     bool
	calls      []string
}

func (f *fakeGit) run(_ context.Context, _ string, args ...string) (string, error) {
	f.calls = append(f.calls, strings.Join(args, " "))
	switch args[0] {
	case "log":
		if f.lastCommit == "" {
			return "", errors.New("fatal: your current branch does not have any commits yet")
		}
		return f.lastCommit + "\n", nil
	case "diff":
		if f.staged {
			return "", errors.New("exit status 1")
		}
		return "", nil
	}
	return "", nil
}

func newRepo(t *testing.T) (string, []string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	report := filepath.Join(root, "README.md")
	require.NoError(t, os.WriteFile(report, []byte("# report\n"), 0o644))
	return root, []string{report, filepath.Join(root, "assets", "activity.svg"), filepath.Join(root, ".blaze")}
}

func TestGitPublisherSkipsOutsideRepoOrWhenDisabled(t *testing.T) {
	t.Parallel()
	git := &fakeGit{staged: true}
	p := &GitPublisher{root: t.TempDir(), enabled: true, run: git.run}
	committed, _, err := p.Publish(context.Background(), time.Now())
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Empty(t, git.calls)

	root, paths := newRepo(t)
	p = &GitPublisher{root: root, paths: paths, enabled: false, run: git.run}
	committed, _, err = p.Publish(context.Background(), time.Now())
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Empty(t, git.calls)
}

func TestGitPublisherWaitsForDailyInterval(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	root, paths := newRepo(t)
	git := &fakeGit{lastCommit: strconv.FormatInt(now.Add(-23*time.Hour).Unix(), 10), staged: true}
	p := &GitPublisher{root: root, paths: paths, enabled: true, run: git.run}

	committed, _, err := p.Publish(context.Background(), now)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Equal(t, []string{"log -1 --format=%ct"}, git.calls)
}

func TestGitPublisherCommitsWhenDue(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	root, paths := newRepo(t)
	git := &fakeGit{lastCommit: strconv.FormatInt(now.Add(-25*time.Hour).Unix(), 10), staged: true}
	p := &GitPublisher{root: root, paths: paths, enabled: true, run: git.run}

	committed, msg, err := p.Publish(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, "blazectl: update (2024-01-02 UTC)", msg)
	require.Len(t, git.calls, 4)
	assert.Equal(t, "add -- README.md", git.calls[1])
	assert.Equal(t, "commit -m blazectl: update (2024-01-02 UTC)", git.calls[3])
}

func TestGitPublisherFirstCommitAndNothingStaged(t *testing.T) {
	t.Parallel()
	root, paths := newRepo(t)
	git := &fakeGit{staged: false}
	p := &GitPublisher{root: root, paths: paths, enabled: true, run: git.run}

	committed, _, err := p.Publish(context.Background(), time.Now())
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Len(t, git.calls, 3)

	git.staged = true
	git.calls = nil
	committed, _, err = p.Publish(context.Background(), time.Now())
	require.NoError(t, err)
	assert.True(t, committed)
}
