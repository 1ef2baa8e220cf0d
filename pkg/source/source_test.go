package source

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGit(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://github.com/Keats/kickstart-sample", true},
		{"http://example.com/repo", true},
		{"git@github.com:Keats/kickstart-sample.git", true},
		{"ssh://git@example.com/repo", true},
		{"git://example.com/repo", true},
		{"file:///srv/templates/repo", true},
		{"../templates/repo.git", true},
		{"./sample", false},
		{"/home/me/templates/rust-cli", false},
		{"github.com/Keats/kickstart-sample", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGit(tt.input))
		})
	}
}

func TestAcquire_Local(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateFile(t, dir, "nested/template.toml", "")

	src, err := Acquire(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, dir, src.Root)
	assert.False(t, src.Git)
	require.NoError(t, src.Cleanup())
	assert.True(t, testutil.DirExists(t, dir), "local sources are never removed")

	src, err = Acquire(context.Background(), dir, Options{SubDir: "nested"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested"), src.Root)
}

func TestAcquire_Errors(t *testing.T) {
	dir := t.TempDir()
	file := testutil.CreateFile(t, dir, "file.txt", "x")

	tests := []struct {
		name  string
		input string
		opts  Options
	}{
		{name: "empty", input: ""},
		{name: "missing directory", input: filepath.Join(dir, "missing")},
		{name: "file", input: file},
		{name: "missing sub directory", input: dir, opts: Options{SubDir: "nope"}},
		{name: "escaping sub directory", input: dir, opts: Options{SubDir: "../.."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Acquire(context.Background(), tt.input, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrSourceAcquisition), "got %v", err)
		})
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	testutil.CreateFile(t, dir, "template.toml", "name = \"sample\"\n")
	testutil.CreateFile(t, dir, "sub/template.toml", "")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestAcquire_GitClone(t *testing.T) {
	// go-git serves file:// remotes through git-upload-pack
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git is not installed")
		}
	}
	remote := initRepo(t)

	cloneDir := filepath.Join(t.TempDir(), "clones")
	src, err := Acquire(context.Background(), "file://"+remote, Options{SubDir: "sub", CloneDir: cloneDir})
	require.NoError(t, err)
	assert.True(t, src.Git)
	assert.Equal(t, cloneDir, filepath.Dir(filepath.Dir(src.Root)))

	clone := filepath.Dir(src.Root)
	assert.True(t, testutil.FileExists(t, filepath.Join(clone, "template.toml")))
	assert.True(t, testutil.FileExists(t, filepath.Join(src.Root, "template.toml")))
	assert.False(t, testutil.PathExists(t, filepath.Join(clone, ".git")))

	require.NoError(t, src.Cleanup())
	assert.False(t, testutil.PathExists(t, clone))
}

func TestAcquire_GitCloneFailure(t *testing.T) {
	_, err := Acquire(context.Background(), "file://"+filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceAcquisition))
	assert.NotEmpty(t, errors.GetErrorDetails(err)[errors.DetailSource])
}
