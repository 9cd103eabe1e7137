package lbi

import (
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/lbi/internal/version"
	"github.com/arthur-debert/lbi/pkg/cobrax/topics"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// cli holds what the commands of one invocation share. The app is built
// on first use so commands like version and completion work even with a
// broken configuration.
type cli struct {
	opts globalOptions
	app  *app
}

func (c *cli) load() (*app, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := newApp(&c.opts)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// completeIDs is a ValidArgsFunction offering installed ids
func (c *cli) completeIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	a, err := c.load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return a.installedIDs(), cobra.ShellCompDirectiveNoFileComp
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	c := &cli{}
	rootCmd := &cobra.Command{
		Use:     "lbi",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(c.opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&c.opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&c.opts.format, "format", "f", "auto", MsgFlagFormat)
	flags.StringVar(&c.opts.root, "root", "", MsgFlagRoot)
	flags.StringVar(&c.opts.configPath, "config", "", MsgFlagConfig)
	flags.StringVar(&c.opts.backend, "backend", "", MsgFlagBackend)
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"auto", "term", "text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("backend", cobra.FixedCompletions(
		[]string{"json", "sqlite"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddGroup(&cobra.Group{ID: "apps", Title: "APPLICATIONS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "maintenance", Title: "MAINTENANCE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(c))
	rootCmd.AddCommand(newUpdateCmd(c))
	rootCmd.AddCommand(newUninstallCmd(c))
	rootCmd.AddCommand(newListCmd(c))
	rootCmd.AddCommand(newStatusCmd(c))
	rootCmd.AddCommand(newReconcileCmd(c))
	rootCmd.AddCommand(newRegistryCmd(c))
	rootCmd.AddCommand(newGenConfigCmd(c))
	rootCmd.AddCommand(newVersionCmd(c))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	if _, err := topics.InitializeWithOptions(rootCmd, helpTopics, helpTopicsDir, topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	}); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
// Errors are rendered to stderr in the selected output format, with the
// remediation hint for their kind.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	format, _ := rootCmd.PersistentFlags().GetString("format")
	renderer, rerr := newRenderer(format, stderr)
	if rerr != nil {
		renderer, _ = newRenderer("text", stderr)
	}
	if rerr := renderer.RenderError(err); rerr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	switch errors.GetErrorCode(err) {
	case errors.ErrUnknown, errors.ErrInvalidInput, errors.ErrInvalidIdentifier:
		// ErrUnknown only comes from cobra's own usage errors
		return 2
	case errors.ErrLockContention:
		return 75
	default:
		return 1
	}
}
