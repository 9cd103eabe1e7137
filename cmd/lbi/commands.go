package lbi

import (
	"path/filepath"

	"github.com/arthur-debert/lbi/pkg/desktopentry"
	"github.com/arthur-debert/lbi/pkg/engine"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/arthur-debert/lbi/pkg/ui/view"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// metadataFlags are shared by install and update
type metadataFlags struct {
	name         string
	icon         string
	categories   []string
	terminal     bool
	acceptsFiles bool
	comment      string
	genericName  string
	keywords     []string
	wmClass      string
	shortcut     bool
}

func (m *metadataFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&m.name, "name", "n", "", MsgFlagName)
	f.StringVarP(&m.icon, "icon", "i", "", MsgFlagIcon)
	f.StringSliceVarP(&m.categories, "category", "c", nil, MsgFlagCategory)
	f.BoolVarP(&m.terminal, "terminal", "t", false, MsgFlagTerminal)
	f.BoolVar(&m.acceptsFiles, "accepts-files", false, MsgFlagAcceptsFiles)
	f.StringVar(&m.comment, "comment", "", MsgFlagComment)
	f.StringVar(&m.genericName, "generic-name", "", MsgFlagGenericName)
	f.StringSliceVarP(&m.keywords, "keyword", "k", nil, MsgFlagKeyword)
	f.StringVar(&m.wmClass, "wm-class", "", MsgFlagWMClass)
	f.BoolVar(&m.shortcut, "desktop-shortcut", false, MsgFlagShortcut)
	_ = cmd.MarkFlagFilename("icon", "png", "svg", "xpm", "ico")
}

// absPath resolves a user supplied path, reporting a bad one as input error
func absPath(flag, p string) (string, error) {
	abs, err := paths.NormalizePath(p)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid %s path %q", flag, p).WithDetail("path", p)
	}
	return abs, nil
}

func newInstallCmd(c *cli) *cobra.Command {
	var (
		meta        metadataFlags
		asNew       bool
		fromDesktop string
	)

	cmd := &cobra.Command{
		Use:     "install <file>",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "apps",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			source, err := absPath("source", args[0])
			if err != nil {
				return err
			}
			req := types.InstallRequest{
				SourcePath:      source,
				DisplayName:     meta.name,
				Categories:      meta.categories,
				Terminal:        meta.terminal,
				AcceptsFileArgs: meta.acceptsFiles,
				Comment:         meta.comment,
				GenericName:     meta.genericName,
				Keywords:        meta.keywords,
				StartupWMClass:  meta.wmClass,
				DesktopShortcut: meta.shortcut,
				AsNew:           asNew,
			}
			if meta.icon != "" {
				if req.IconPath, err = absPath("icon", meta.icon); err != nil {
					return err
				}
			}
			if fromDesktop != "" {
				if err := prefill(a.fs, fromDesktop, &req); err != nil {
					return err
				}
			}

			logger := logging.GetLogger("cli.install")
			logger.Info().
				Str("source", req.SourcePath).
				Str("name", req.DisplayName).
				Bool("asNew", req.AsNew).
				Msg("Installing")

			return a.withEngine(func(e *engine.Engine) error {
				rec, err := e.Install(cmd.Context(), req)
				if err != nil {
					return err
				}
				return r.RenderResult(view.Outcome{Action: "installed", Application: rec})
			})
		},
	}

	meta.register(cmd)
	cmd.Flags().BoolVar(&asNew, "as-new", false, MsgFlagAsNew)
	cmd.Flags().StringVar(&fromDesktop, "from-desktop", "", MsgFlagFromDesktop)
	_ = cmd.MarkFlagFilename("from-desktop", "desktop")
	return cmd
}

// prefill fills metadata missing from req out of an existing desktop entry
func prefill(fs afero.Fs, template string, req *types.InstallRequest) error {
	path, err := absPath("desktop entry", template)
	if err != nil {
		return err
	}
	entry, err := desktopentry.ParseFile(fs, path)
	if err != nil {
		if errors.GetErrorCode(err) != errors.ErrUnknown {
			return err
		}
		return errors.Wrapf(err, errors.ErrSourceUnreadable, MsgErrDesktopTemplate, path).WithDetail("path", path)
	}
	entry.Prefill(req, func(icon string) bool {
		ok, _ := filesystem.Exists(fs, icon)
		return ok
	})
	return nil
}

func newUpdateCmd(c *cli) *cobra.Command {
	var (
		meta   metadataFlags
		source string
		noIcon bool
		diff   bool
	)

	cmd := &cobra.Command{
		Use:               "update <id>",
		Short:             MsgUpdateShort,
		Long:              MsgUpdateLong,
		Example:           MsgUpdateExample,
		GroupID:           "apps",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			req, err := buildUpdate(cmd, &meta, source, noIcon)
			if err != nil {
				return err
			}
			id := args[0]

			return a.withEngine(func(e *engine.Engine) error {
				var before []byte
				if diff {
					st, err := e.Status(cmd.Context(), id)
					if err != nil {
						return err
					}
					if before, err = afero.ReadFile(a.fs, st.Record.DesktopEntryPath); err != nil {
						before = e.Render(st.Record)
					}
				}

				rec, err := e.Update(cmd.Context(), id, req)
				if err != nil {
					return err
				}

				out := view.Outcome{Action: "updated", Application: rec}
				if diff {
					d := view.NewDiff(filepath.Base(rec.DesktopEntryPath), string(before), string(e.Render(rec)))
					out.Diff = &d
				}
				return r.RenderResult(out)
			})
		},
	}

	meta.register(cmd)
	cmd.Flags().StringVarP(&source, "source", "s", "", MsgFlagSource)
	cmd.Flags().BoolVar(&noIcon, "no-icon", false, MsgFlagNoIcon)
	cmd.Flags().BoolVar(&diff, "diff", false, MsgFlagDiff)
	return cmd
}

// buildUpdate turns the flags that were actually given into a request
func buildUpdate(cmd *cobra.Command, meta *metadataFlags, source string, noIcon bool) (types.UpdateRequest, error) {
	flags := cmd.Flags()
	req := types.UpdateRequest{RemoveIcon: noIcon}

	if flags.Changed("icon") && noIcon {
		return req, errors.New(errors.ErrInvalidInput, MsgErrIconAndNoIcon)
	}
	if flags.Changed("source") {
		p, err := absPath("source", source)
		if err != nil {
			return req, err
		}
		req.SourcePath = &p
	}
	if flags.Changed("icon") {
		p, err := absPath("icon", meta.icon)
		if err != nil {
			return req, err
		}
		req.IconPath = &p
	}

	str := func(name string, v *string) *string {
		if flags.Changed(name) {
			return v
		}
		return nil
	}
	boolean := func(name string, v *bool) *bool {
		if flags.Changed(name) {
			return v
		}
		return nil
	}
	list := func(name string, v []string) []string {
		if !flags.Changed(name) {
			return nil
		}
		if v == nil {
			return []string{}
		}
		return v
	}

	req.DisplayName = str("name", &meta.name)
	req.Comment = str("comment", &meta.comment)
	req.GenericName = str("generic-name", &meta.genericName)
	req.StartupWMClass = str("wm-class", &meta.wmClass)
	req.Terminal = boolean("terminal", &meta.terminal)
	req.AcceptsFileArgs = boolean("accepts-files", &meta.acceptsFiles)
	req.DesktopShortcut = boolean("desktop-shortcut", &meta.shortcut)
	req.Categories = list("category", meta.categories)
	req.Keywords = list("keyword", meta.keywords)
	return req, nil
}

func newUninstallCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "uninstall <id>",
		Aliases:           []string{"remove", "rm"},
		Short:             MsgUninstallShort,
		GroupID:           "apps",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return a.withEngine(func(e *engine.Engine) error {
				rec, err := e.Uninstall(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return r.RenderResult(view.Outcome{Action: "uninstalled", Application: rec})
			})
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		GroupID: "apps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return a.withEngine(func(e *engine.Engine) error {
				list, err := e.List(cmd.Context())
				if err != nil {
					return err
				}
				return r.RenderResult(list)
			})
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "status <id>",
		Short:             MsgStatusShort,
		GroupID:           "apps",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return a.withEngine(func(e *engine.Engine) error {
				st, err := e.Status(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return r.RenderResult(st)
			})
		},
	}
}

func newReconcileCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "reconcile",
		Short:   MsgReconcileShort,
		Long:    MsgReconcileLong,
		GroupID: "maintenance",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return a.withEngine(func(e *engine.Engine) error {
				report, err := e.Reconcile(cmd.Context())
				if err != nil {
					return err
				}
				return r.RenderResult(report)
			})
		},
	}
}
