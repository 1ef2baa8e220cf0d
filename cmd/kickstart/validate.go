package kickstart

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/filesystem"
	"github.com/johnlanda/kickstart/pkg/render"
	"github.com/johnlanda/kickstart/pkg/ui/styles"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var subDir, branch string

	cmd := &cobra.Command{
		Use:     "validate <source>",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], subDir, branch)
		},
	}

	cmd.Flags().StringVar(&subDir, "sub-dir", "", MsgFlagSubDir)
	cmd.Flags().StringVar(&branch, "branch", "", MsgFlagBranch)

	return cmd
}

func runValidate(cmd *cobra.Command, input, subDir, branch string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := acquire(ctx, out, input, subDir, branch, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = src.Cleanup() }()

	fs := filesystem.NewOS()
	path, err := definition.Find(fs, src.Root, cfg.DefinitionFiles)
	if err != nil {
		return err
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, MsgErrReadDef, path).WithPath(path)
	}
	def, err := definition.Parse(path, data)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	problems := def.Errors()
	warnings := append(def.Warnings(), functionNameWarnings(def)...)

	if len(warnings) > 0 {
		fmt.Fprintf(out, MsgWarningsHeader, styles.Render("Warning", name), len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(out, MsgProblemItem, w)
		}
	}

	if len(problems) == 0 {
		fmt.Fprintf(out, MsgValid, styles.Render("Success", name),
			len(def.Variables), len(def.Ignore), len(def.CopyWithoutRender), len(def.Cleanup))
		return nil
	}

	fmt.Fprintf(out, MsgProblemsHeader, styles.Render("Error", name), len(problems))
	for _, p := range problems {
		fmt.Fprintf(out, MsgProblemItem, p)
	}
	return def.Validate()
}

// functionNameWarnings flags variables that share a name with a template
// function; templates can only read those answers as fields on dot.
func functionNameWarnings(def *definition.TemplateDefinition) []definition.Problem {
	var warnings []definition.Problem
	for _, v := range def.Variables {
		if v.Name == "" || !render.IsFunction(v.Name) {
			continue
		}
		warnings = append(warnings, definition.Problem{
			Code:    errors.ErrInvalidDefinition,
			Subject: fmt.Sprintf("variable %q", v.Name),
			Message: fmt.Sprintf(MsgFunctionName, v.Name, v.Name),
			Warning: true,
		})
	}
	return warnings
}
