// Package source locates the template a generation starts from. A source
// is either a local directory or a Git remote, which is cloned into a
// temporary directory first.
package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/johnlanda/kickstart/pkg/matchers"
)

// gitPrefixes mark inputs that are cloned rather than read in place
var gitPrefixes = []string{"http://", "https://", "git@", "ssh://", "git://", "file://"}

// Options control how a source is acquired.
type Options struct {
	// SubDir is the template root relative to the source
	SubDir string

	// Branch clones a branch other than the remote's default
	Branch string

	// Depth limits the cloned history; zero clones everything
	Depth int

	// Progress receives the remote's progress messages when set
	Progress io.Writer

	// CloneDir is where clones are made; the system temp dir when empty
	CloneDir string
}

// Source is an acquired template.
type Source struct {
	Input string
	Root  string // Template root on the local filesystem
	Git   bool

	tmpDir string
}

// IsGit reports whether input names a Git remote
func IsGit(input string) bool {
	for _, prefix := range gitPrefixes {
		if strings.HasPrefix(input, prefix) {
			return true
		}
	}
	return strings.HasSuffix(input, ".git")
}

// Acquire resolves input to a local template root. Git remotes are cloned
// into a temporary directory that Cleanup removes.
func Acquire(ctx context.Context, input string, opts Options) (*Source, error) {
	logger := logging.GetLogger("source")

	if strings.TrimSpace(input) == "" {
		return nil, errors.New(errors.ErrSourceAcquisition, "no template source given")
	}

	src := &Source{Input: input, Git: IsGit(input)}
	base := input

	if src.Git {
		dir, err := clone(ctx, input, opts)
		if err != nil {
			return nil, err
		}
		src.tmpDir = dir
		base = dir
		logger.Info().Str("source", input).Str("dir", dir).Msg("Template cloned")
	}

	root, err := templateRoot(base, opts.SubDir)
	if err != nil {
		_ = src.Cleanup()
		return nil, errors.AddDetail(err, errors.DetailSource, input)
	}
	src.Root = root

	logger.Debug().Str("source", input).Str("root", root).Bool("git", src.Git).Msg("Template source ready")
	return src, nil
}

// Cleanup removes the clone of a Git source. It is a no-op for local sources.
func (s *Source) Cleanup() error {
	if s == nil || s.tmpDir == "" {
		return nil
	}
	dir := s.tmpDir
	s.tmpDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot remove %s", dir).WithPath(dir)
	}
	return nil
}

func clone(ctx context.Context, url string, opts Options) (string, error) {
	if opts.CloneDir != "" {
		if err := os.MkdirAll(opts.CloneDir, 0755); err != nil {
			return "", errors.Wrapf(err, errors.ErrSourceAcquisition, "cannot create %s", opts.CloneDir).
				WithPath(opts.CloneDir)
		}
	}
	dir, err := os.MkdirTemp(opts.CloneDir, "kickstart-")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrSourceAcquisition, "cannot create a directory to clone into").
			WithDetail(errors.DetailSource, url)
	}

	cloneOpts := &git.CloneOptions{
		URL:          url,
		Depth:        opts.Depth,
		SingleBranch: true,
		Progress:     opts.Progress,
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
	}

	// objects stay in memory so the clone has no .git directory to skip
	if _, err := git.CloneContext(ctx, memory.NewStorage(), osfs.New(dir), cloneOpts); err != nil {
		_ = os.RemoveAll(dir)
		return "", errors.Wrapf(err, errors.ErrSourceAcquisition, "cannot clone %s", url).
			WithDetail(errors.DetailSource, url)
	}
	return dir, nil
}

func templateRoot(base, subDir string) (string, error) {
	root := base
	if subDir != "" {
		rel := matchers.NormalizeRel(subDir)
		if !matchers.IsWithin(rel) {
			return "", errors.Newf(errors.ErrSourceAcquisition, "sub directory %q must stay inside the source", subDir)
		}
		root = filepath.Join(base, filepath.FromSlash(rel))
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.ErrSourceAcquisition, "template directory %s does not exist", root).
				WithPath(root)
		}
		return "", errors.Wrapf(err, errors.ErrSourceAcquisition, "cannot stat %s", root).WithPath(root)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrSourceAcquisition, "%s is not a directory", root).WithPath(root)
	}
	return root, nil
}
