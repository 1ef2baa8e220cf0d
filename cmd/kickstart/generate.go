package kickstart

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnlanda/kickstart/pkg/config"
	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/filesystem"
	"github.com/johnlanda/kickstart/pkg/generate"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/johnlanda/kickstart/pkg/paths"
	"github.com/johnlanda/kickstart/pkg/prompt"
	"github.com/johnlanda/kickstart/pkg/source"
	"github.com/johnlanda/kickstart/pkg/ui/styles"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	output  string
	subDir  string
	branch  string
	noInput bool
	atomic  bool
	sets    []string
}

func runGenerate(cmd *cobra.Command, input string, opts *generateOptions) error {
	logger := logging.GetLogger("cmd.generate")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	presets, err := parseSets(opts.sets)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := acquire(ctx, out, input, opts.subDir, opts.branch, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Cleanup(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove cloned template")
		}
	}()

	g := generate.New(filesystem.NewOS(), choosePrompter(cfg.NoInput, out), cfg.GeneratorOptions(presets))

	tpl, err := g.Load(src.Root)
	if err != nil {
		return err
	}
	printHeader(out, tpl.Definition)

	result, err := g.Generate(ctx, tpl, opts.output)
	if err != nil {
		return err
	}

	printSummary(out, result)
	return nil
}

// loadConfig reads the settings with the flags the user set applied last
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("no-input") {
		v, _ := flags.GetBool("no-input")
		overrides["no_input"] = v
	}
	if flags.Changed("atomic") {
		v, _ := flags.GetBool("atomic")
		overrides["atomic"] = v
	}
	return config.Load(config.LoadOptions{Overrides: overrides})
}

func acquire(ctx context.Context, out io.Writer, input, subDir, branch string, cfg *config.Config) (*source.Source, error) {
	opts := source.Options{
		SubDir:   subDir,
		Branch:   branch,
		Depth:    cfg.CloneDepth,
		CloneDir: paths.New().ClonesDir(),
	}
	if source.IsGit(input) {
		pterm.Info.WithWriter(out).Printfln(MsgCloning, input)
	}
	return source.Acquire(ctx, input, opts)
}

// parseSets turns repeated name=value flags into presets; the last one wins
func parseSets(sets []string) (map[string]string, error) {
	presets := make(map[string]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Newf(errors.ErrInvalidAnswer, MsgErrBadSet, s)
		}
		presets[name] = value
	}
	return presets, nil
}

func choosePrompter(noInput bool, out io.Writer) prompt.Prompter {
	if noInput {
		return prompt.NewDefaults()
	}
	if !stdinIsTerminal() {
		pterm.Warning.WithWriter(out).Println(MsgNonInteractive)
		return prompt.NewDefaults()
	}
	return prompt.NewTerminal(out)
}

func printHeader(out io.Writer, def *definition.TemplateDefinition) {
	if def.Name != "" {
		fmt.Fprintln(out, styles.Render("Header", def.Name))
	}
	if def.Description != "" {
		fmt.Fprintln(out, styles.Render("Muted", def.Description))
	}
	if def.Name != "" || def.Description != "" {
		fmt.Fprintln(out)
	}
}

func printSummary(out io.Writer, result *generate.Result) {
	count := func(n int) string {
		return styles.Render("Count", fmt.Sprint(n))
	}

	pterm.Success.WithWriter(out).Printfln(MsgGenerated, styles.Render("Path", result.Output))
	s := result.Summary
	fmt.Fprintf(out, MsgSummary, count(s.Rendered), count(s.Copied), count(s.Directories), count(s.Ignored), count(s.Cleaned))
	for _, p := range result.Removed {
		fmt.Fprintf(out, MsgRemovedItem, styles.Render("Muted", p))
	}
}
