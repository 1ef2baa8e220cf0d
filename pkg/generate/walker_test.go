package generate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/filesystem"
	"github.com/johnlanda/kickstart/pkg/matchers"
	"github.com/johnlanda/kickstart/pkg/render"
	"github.com/johnlanda/kickstart/pkg/testutil"
	"github.com/johnlanda/kickstart/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	memTemplate = "/template"
	memOutput   = "/output"
)

func newEngine(t *testing.T, values map[string]definition.Value) *render.Engine {
	t.Helper()
	return render.New(answers(t, values))
}

func newEngineFrom(ctx *definition.Context) *render.Engine {
	return render.New(ctx)
}

func writeTree(t *testing.T, fs types.FS, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, fs.WriteFile(p, []byte(content), 0644))
	}
}

func walk(t *testing.T, fs types.FS, def *definition.TemplateDefinition, engine *render.Engine, opts WalkOptions) (*Walker, error) {
	t.Helper()
	if opts.DefinitionFile == "" {
		opts.DefinitionFile = filepath.Join(memTemplate, "template.toml")
	}
	w, err := NewWalker(fs, def, engine, opts)
	require.NoError(t, err)
	return w, w.Walk(context.Background(), memTemplate, memOutput)
}

func osFS() types.FS {
	return filesystem.NewOS()
}

func readOut(t *testing.T, fs types.FS, rel string) string {
	t.Helper()
	data, err := fs.ReadFile(filepath.Join(memOutput, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func existsOut(fs types.FS, rel string) bool {
	_, err := fs.Stat(filepath.Join(memOutput, filepath.FromSlash(rel)))
	return err == nil
}

func TestWalk_IdentityPaths(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{
		"template.toml":       "",
		"README.md":           "plain",
		"src/lib/util.go":     "package lib",
		"docs/guide/intro.md": "intro",
	})

	w, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)

	for _, rel := range []string{"README.md", "src/lib/util.go", "docs/guide/intro.md"} {
		assert.True(t, existsOut(fs, rel), rel)
	}
	assert.False(t, existsOut(fs, "template.toml"))
	assert.Equal(t, "package lib", readOut(t, fs, "src/lib/util.go"))

	summary := w.Summary()
	assert.Equal(t, 3, summary.Rendered)
	assert.Equal(t, 4, summary.Directories)
}

func TestWalk_RendersPathsAndContent(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{
		"{{project_name}}/main.txt":      "Hello {{project_name}}",
		"{{.project_name}}/upper.txt":    "{{ upper .project_name }}",
		"{{project_name}}/conf/port.txt": "{{ port }}",
	})
	engine := newEngine(t, map[string]definition.Value{
		"project_name": definition.String("demo"),
		"port":         definition.Integer(8080),
	})

	_, err := walk(t, fs, &definition.TemplateDefinition{}, engine, WalkOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Hello demo", readOut(t, fs, "demo/main.txt"))
	assert.Equal(t, "DEMO", readOut(t, fs, "demo/upper.txt"))
	assert.Equal(t, "8080", readOut(t, fs, "demo/conf/port.txt"))
}

func TestWalk_Ignore(t *testing.T) {
	tests := []struct {
		name    string
		mode    matchers.IgnoreMode
		ignore  []string
		present []string
		absent  []string
	}{
		{
			name:    "file",
			ignore:  []string{"secret.txt"},
			present: []string{"keep.txt"},
			absent:  []string{"secret.txt"},
		},
		{
			name:    "directory is not descended",
			ignore:  []string{"build"},
			present: []string{"keep.txt"},
			absent:  []string{"build", "build/out/bin.txt"},
		},
		{
			name:    "prefix also matches siblings",
			ignore:  []string{"src"},
			present: []string{"keep.txt"},
			absent:  []string{"src", "src-extra/file.txt"},
		},
		{
			name:    "component mode keeps siblings",
			mode:    matchers.IgnoreComponent,
			ignore:  []string{"src"},
			present: []string{"keep.txt", "src-extra/file.txt"},
			absent:  []string{"src"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewTestFS()
			writeTree(t, fs, memTemplate, map[string]string{
				"keep.txt":           "keep",
				"secret.txt":         "secret",
				"build/out/bin.txt":  "out",
				"src/main.go":        "package main",
				"src-extra/file.txt": "extra",
			})
			def := &definition.TemplateDefinition{Ignore: tt.ignore}

			_, err := walk(t, fs, def, newEngine(t, nil), WalkOptions{IgnoreMode: tt.mode})
			require.NoError(t, err)

			for _, rel := range tt.present {
				assert.True(t, existsOut(fs, rel), "%s should exist", rel)
			}
			for _, rel := range tt.absent {
				assert.False(t, existsOut(fs, rel), "%s should not exist", rel)
			}
		})
	}
}

func TestWalk_IgnoredEntriesAreNotRendered(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{
		"partials/broken.txt": "{{ undefined_thing }}",
		"ok.txt":              "ok",
	})
	def := &definition.TemplateDefinition{Ignore: []string{"partials"}}

	w, err := walk(t, fs, def, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, w.Summary().Ignored)
}

func TestWalk_SkipsVCSDirectories(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{
		".git/HEAD":       "ref: refs/heads/main",
		"sub/.hg/store":   "x",
		".gitignore":      "*.log",
		"sub/keep.txt":    "keep",
		".custom/ignored": "x",
	})

	_, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)
	assert.False(t, existsOut(fs, ".git"))
	assert.False(t, existsOut(fs, "sub/.hg"))
	assert.True(t, existsOut(fs, ".gitignore"))
	assert.True(t, existsOut(fs, "sub/keep.txt"))
	assert.True(t, existsOut(fs, ".custom/ignored"))
}

func TestWalk_CustomVCSDirs(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{
		".git/HEAD":       "ref: refs/heads/main",
		".custom/ignored": "x",
	})

	_, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil),
		WalkOptions{VCSDirs: []string{".custom"}})
	require.NoError(t, err)
	assert.True(t, existsOut(fs, ".git/HEAD"))
	assert.False(t, existsOut(fs, ".custom"))
}

func TestWalk_CopiesWithoutRender(t *testing.T) {
	fs := testutil.NewTestFS()
	raw := "{{ not a template"
	writeTree(t, fs, memTemplate, map[string]string{
		"assets/logo.png":    raw,
		"assets/nested/a.md": "{{ name }}",
	})
	def := &definition.TemplateDefinition{CopyWithoutRender: []string{"*.png", "assets/nested/*"}}
	engine := newEngine(t, map[string]definition.Value{"name": definition.String("x")})

	w, err := walk(t, fs, def, engine, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, raw, readOut(t, fs, "assets/logo.png"))
	assert.Equal(t, "{{ name }}", readOut(t, fs, "assets/nested/a.md"))
	assert.Equal(t, 2, w.Summary().Copied)
}

func TestWalk_CopyPatternMatchesRenderedPath(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{
		"{{name}}/raw.txt": "{{ keep }}",
	})
	def := &definition.TemplateDefinition{CopyWithoutRender: []string{"demo/*"}}
	engine := newEngine(t, map[string]definition.Value{"name": definition.String("demo")})

	_, err := walk(t, fs, def, engine, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, "{{ keep }}", readOut(t, fs, "demo/raw.txt"))
}

func TestWalk_BinaryRoundTrip(t *testing.T) {
	fs := testutil.NewTestFS()
	data := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, '{', '{', 0xff, 0xfe}
	p := filepath.Join(memTemplate, "image.bin")
	require.NoError(t, fs.MkdirAll(memTemplate, 0755))
	require.NoError(t, fs.WriteFile(p, data, 0644))

	w, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)

	got, err := fs.ReadFile(filepath.Join(memOutput, "image.bin"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, 1, w.Summary().Copied)
}

func TestWalk_InvalidUTF8AfterSample(t *testing.T) {
	fs := testutil.NewTestFS()
	data := make([]byte, 0, 2100)
	for i := 0; i < 2048; i++ {
		data = append(data, 'a')
	}
	data = append(data, 0xc3, 0x28)
	require.NoError(t, fs.MkdirAll(memTemplate, 0755))
	require.NoError(t, fs.WriteFile(filepath.Join(memTemplate, "late.txt"), data, 0644))

	_, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBinaryDecode))
	assert.Equal(t, "late.txt", errors.PathOf(err))
}

func TestWalk_RenderErrorCarriesPath(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		path  string
	}{
		{name: "content", files: map[string]string{"a/b.txt": "{{ missing_var }}"}, path: "a/b.txt"},
		{name: "path", files: map[string]string{"{{ missing_var }}.txt": "x"}, path: "{{ missing_var }}.txt"},
		{name: "syntax", files: map[string]string{"c.txt": "{{ if }"}, path: "c.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewTestFS()
			writeTree(t, fs, memTemplate, tt.files)

			_, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrRender), "got %v", err)
			assert.Equal(t, tt.path, errors.PathOf(err))
		})
	}
}

func TestWalk_RejectsPathEscapingOutput(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{"{{ dir }}/x.txt": "x"})
	engine := newEngine(t, map[string]definition.Value{"dir": definition.String("../elsewhere")})

	_, err := walk(t, fs, &definition.TemplateDefinition{}, engine, WalkOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRender))
	assert.False(t, existsOut(fs, "../elsewhere/x.txt"))
}

func TestWalk_MissingTemplateRoot(t *testing.T) {
	fs := testutil.NewTestFS()

	_, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	assert.Equal(t, memTemplate, errors.PathOf(err))
}

func TestWalk_Canceled(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{"a.txt": "a"})

	w, err := NewWalker(fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.Walk(ctx, memTemplate, memOutput)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCanceled))
	assert.False(t, existsOut(fs, "a.txt"))
}

func TestWalk_OutputInsideTemplate(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{"a.txt": "a"})
	out := filepath.Join(memTemplate, "out")

	w, err := NewWalker(fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Walk(context.Background(), memTemplate, out))

	_, err = fs.Stat(filepath.Join(out, "a.txt"))
	assert.NoError(t, err)
	_, err = fs.Stat(filepath.Join(out, "out"))
	assert.True(t, os.IsNotExist(err))
}

func TestWalk_PreservesFileMode(t *testing.T) {
	tpl := testutil.SetupTestTemplate(t, "")
	tpl.AddExecutable(t, "bin/run.sh", "#!/bin/sh\necho {{ name }}\n")
	tpl.AddFile(t, "plain.txt", "plain")

	engine := newEngine(t, map[string]definition.Value{"name": definition.String("demo")})
	w, err := NewWalker(osFS(), &definition.TemplateDefinition{}, engine, WalkOptions{
		DefinitionFile: filepath.Join(tpl.Dir, "template.toml"),
	})
	require.NoError(t, err)
	require.NoError(t, w.Walk(context.Background(), tpl.Dir, tpl.Output))

	info, err := os.Stat(tpl.OutputPath("bin/run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Equal(t, "#!/bin/sh\necho demo\n", testutil.ReadFile(t, tpl.OutputPath("bin/run.sh")))

	info, err = os.Stat(tpl.OutputPath("plain.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestNewWalker_InvalidGlob(t *testing.T) {
	def := &definition.TemplateDefinition{CopyWithoutRender: []string{"[unclosed"}}
	_, err := NewWalker(testutil.NewTestFS(), def, newEngine(t, nil), WalkOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidDefinition))
}

// failingWrites fails WriteFile for one destination and records the others
type failingWrites struct {
	types.FS
	failOn string
	writes []string
}

func (f *failingWrites) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if name == f.failOn {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	f.writes = append(f.writes, name)
	return f.FS.WriteFile(name, data, perm)
}

func TestWalk_WriteFailureStopsWithPath(t *testing.T) {
	tpl := testutil.SetupTestTemplate(t, "")
	tpl.AddFile(t, "a.txt", "a")
	tpl.AddFile(t, "b.txt", "b")
	tpl.AddFile(t, "c.txt", "c")

	failing := &failingWrites{FS: osFS(), failOn: tpl.OutputPath("b.txt")}
	w, err := NewWalker(failing, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)

	err = w.Walk(context.Background(), tpl.Dir, tpl.Output)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	assert.Equal(t, tpl.OutputPath("b.txt"), errors.PathOf(err))

	assert.Equal(t, []string{tpl.OutputPath("a.txt")}, failing.writes)
	assert.True(t, testutil.FileExists(t, tpl.OutputPath("a.txt")))
	assert.False(t, testutil.PathExists(t, tpl.OutputPath("c.txt")))
	assert.Equal(t, 1, w.Summary().Rendered)
}

func TestWalk_ReadOnlyOutputDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	tpl := testutil.SetupTestTemplate(t, "")
	tpl.AddFile(t, "a.txt", "a")
	tpl.AddFile(t, "b.txt", "b")
	require.NoError(t, os.MkdirAll(tpl.Output, 0755))
	require.NoError(t, os.Chmod(tpl.Output, 0555))
	t.Cleanup(func() { _ = os.Chmod(tpl.Output, 0755) })

	w, err := NewWalker(osFS(), &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)

	err = w.Walk(context.Background(), tpl.Dir, tpl.Output)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	assert.Equal(t, tpl.OutputPath("a.txt"), errors.PathOf(err))
	assert.Zero(t, w.Summary().Rendered)
}

func TestWalk_EmptyRenderedName(t *testing.T) {
	for _, rel := range []string{"{{ if docs }}docs{{ end }}/README.md", "{{ if docs }}notes.md{{ end }}"} {
		t.Run(rel, func(t *testing.T) {
			fs := testutil.NewTestFS()
			writeTree(t, fs, memTemplate, map[string]string{rel: "readme"})
			engine := newEngine(t, map[string]definition.Value{"docs": definition.Bool(false)})

			_, err := walk(t, fs, &definition.TemplateDefinition{}, engine, WalkOptions{})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrRender))
			assert.Contains(t, err.Error(), "renders to an empty name")
			assert.NotContains(t, err.Error(), "outside the output directory")
			assert.False(t, existsOut(fs, "README.md"))
		})
	}
}

func TestWalk_SkipsEveryDefinitionFile(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{
		"template.toml":          "",
		"template.yaml":          "",
		"template.yml":           "",
		"docs/template.yaml":     "nested",
		"custom/definition.toml": "",
	})

	_, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{})
	require.NoError(t, err)

	assert.False(t, existsOut(fs, "template.toml"))
	assert.False(t, existsOut(fs, "template.yaml"))
	assert.False(t, existsOut(fs, "template.yml"))
	assert.True(t, existsOut(fs, "docs/template.yaml"))
	assert.True(t, existsOut(fs, "custom/definition.toml"))
}

func TestWalk_CustomDefinitionFiles(t *testing.T) {
	fs := testutil.NewTestFS()
	writeTree(t, fs, memTemplate, map[string]string{
		"kickstart.toml": "",
		"template.toml":  "kept",
	})

	_, err := walk(t, fs, &definition.TemplateDefinition{}, newEngine(t, nil), WalkOptions{
		DefinitionFile:  filepath.Join(memTemplate, "kickstart.toml"),
		DefinitionFiles: []string{"kickstart.toml"},
	})
	require.NoError(t, err)

	assert.False(t, existsOut(fs, "kickstart.toml"))
	assert.Equal(t, "kept", readOut(t, fs, "template.toml"))
}
