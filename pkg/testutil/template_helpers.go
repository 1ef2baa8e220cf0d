package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTemplate is a template directory and an output location in a temp dir
type TestTemplate struct {
	Dir    string // Template root
	Output string // Output directory, not created
}

// SetupTestTemplate creates a template root holding template.toml with the
// given content. An empty definition still writes the file.
func SetupTestTemplate(t *testing.T, definition string) *TestTemplate {
	t.Helper()

	tmpDir := t.TempDir()
	tpl := &TestTemplate{
		Dir:    filepath.Join(tmpDir, "template"),
		Output: filepath.Join(tmpDir, "output"),
	}
	require.NoError(t, os.MkdirAll(tpl.Dir, 0755))
	tpl.AddFile(t, "template.toml", definition)

	return tpl
}

// AddFile adds a text file to the template, creating parent directories
func (tt *TestTemplate) AddFile(t *testing.T, rel, content string) string {
	t.Helper()
	return CreateFile(t, tt.Dir, rel, content)
}

// AddBytes adds a file with raw content to the template
func (tt *TestTemplate) AddBytes(t *testing.T, rel string, content []byte) string {
	t.Helper()
	return CreateBytes(t, tt.Dir, rel, content, 0644)
}

// AddExecutable adds an executable file to the template
func (tt *TestTemplate) AddExecutable(t *testing.T, rel, content string) string {
	t.Helper()
	return CreateBytes(t, tt.Dir, rel, []byte(content), 0755)
}

// AddDir adds an empty directory to the template
func (tt *TestTemplate) AddDir(t *testing.T, rel string) string {
	t.Helper()
	return CreateDir(t, tt.Dir, rel)
}

// OutputPath returns the absolute output path of a slash-separated relative path
func (tt *TestTemplate) OutputPath(rel string) string {
	return filepath.Join(tt.Output, filepath.FromSlash(rel))
}
