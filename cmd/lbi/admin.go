package lbi

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/arthur-debert/lbi/internal/version"
	"github.com/arthur-debert/lbi/pkg/artifact"
	"github.com/arthur-debert/lbi/pkg/config"
	"github.com/arthur-debert/lbi/pkg/engine"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newRegistryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registry",
		Short:   MsgRegistryShort,
		GroupID: "maintenance",
	}
	cmd.AddCommand(newResetCmd(c))
	return cmd
}

func newResetCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: MsgResetShort,
		Long:  MsgResetLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New(errors.ErrInvalidInput, MsgErrResetNeedsForce)
			}
			a, err := c.load()
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			resolver, err := a.resolver()
			if err != nil {
				return err
			}

			backend := a.cfg.Registry.Backend
			aside, err := engine.ResetRegistry(cmd.Context(), a.locker(resolver), a.fs,
				backend, resolver.RegistryPath(backend), time.Now())
			if err != nil {
				return err
			}
			if aside == "" {
				return r.RenderMessage(MsgResetNothing)
			}
			return r.RenderMessage(fmt.Sprintf(MsgResetDoneFormat, aside))
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForceReset)
	return cmd
}

func newGenConfigCmd(c *cli) *cobra.Command {
	var write, force, effective bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}

			var content string
			if effective {
				data, err := config.Marshal(a.cfg)
				if err != nil {
					return err
				}
				content = string(data)
			} else if content, err = config.GenerateConfigContent(a.cfg); err != nil {
				return err
			}

			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			target := a.cfg.Source
			if target == "" {
				target = paths.DefaultConfigPath()
			}
			if err := writeConfig(a, target, []byte(content), force); err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgConfigWritten, target))
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWriteConfig)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForceConfig)
	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	return cmd
}

func writeConfig(a *app, target string, data []byte, force bool) error {
	exists, err := filesystem.Exists(a.fs, target)
	if err != nil {
		return artifact.Classify(target, err)
	}
	if exists && !force {
		return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, target).WithDetail("path", target)
	}
	if err := a.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return artifact.Classify(target, err)
	}
	logger := logging.GetLogger("cli.genconfig")
	logger.Info().Str("path", target).Bool("overwrite", exists).Msg("Writing configuration")
	return artifact.NewWriter(a.fs).WriteBytes(target, data, artifact.ModeRegular)
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			format, err := ui.ParseFormat(c.opts.format)
			if err != nil {
				return err
			}
			if format == ui.FormatJSON || format == ui.FormatYAML {
				r, err := ui.NewRenderer(format, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				return r.RenderResult(info)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), info.String())
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// ManHeader is the header used for the generated man page
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "LBI",
		Section: "1",
		Source:  "lbi " + version.Version,
		Manual:  "lbi manual",
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doc.GenMan(cmd.Root(), ManHeader(), cmd.OutOrStdout())
		},
	}
}
