package lbi

import (
	"io"

	"github.com/arthur-debert/lbi/pkg/config"
	"github.com/arthur-debert/lbi/pkg/desktopentry"
	"github.com/arthur-debert/lbi/pkg/engine"
	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/arthur-debert/lbi/pkg/lock"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/registry"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/arthur-debert/lbi/pkg/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// refreshCommand rebuilds the menu cache after a change
const refreshCommand = "update-desktop-database"

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	format     string
	root       string
	configPath string
	backend    string
}

// app is the per-invocation runtime built from the flags and config
type app struct {
	opts *globalOptions
	cfg  *config.Config
	fs   afero.Fs
}

// overrides turns explicit flags into config overrides
func (o *globalOptions) overrides() map[string]interface{} {
	m := map[string]interface{}{}
	if o.root != "" {
		m["root"] = o.root
	}
	if o.backend != "" {
		m["registry.backend"] = o.backend
	}
	return m
}

func newApp(opts *globalOptions) (*app, error) {
	cfg, err := config.Load(config.Options{Path: opts.configPath, Overrides: opts.overrides()})
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger("cli")
	logger.Debug().
		Str("root", cfg.Root).
		Str("backend", cfg.Registry.Backend).
		Str("configFile", cfg.Source).
		Msg("Configuration loaded")
	return &app{opts: opts, cfg: cfg, fs: filesystem.NewOS()}, nil
}

// renderer returns a renderer for the command's output stream
func (a *app) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	return newRenderer(a.opts.format, cmd.OutOrStdout())
}

func newRenderer(format string, w io.Writer) (ui.Renderer, error) {
	f, err := ui.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(f, w)
}

func (a *app) resolver() (*paths.Resolver, error) {
	return paths.NewResolver(a.cfg.Root)
}

func (a *app) locker(r *paths.Resolver) lock.Locker {
	return lock.NewFileLock(r.LockPath(), a.cfg.LockPolicy())
}

// openEngine wires an engine from the configuration. The returned close
// function releases the registry.
func (a *app) openEngine() (*engine.Engine, func(), error) {
	resolver, err := a.resolver()
	if err != nil {
		return nil, nil, err
	}

	backend := a.cfg.Registry.Backend
	regPath := resolver.RegistryPath(backend)
	reg, err := registry.Open(a.fs, backend, regPath)
	if err != nil {
		return nil, nil, err
	}

	var refresher engine.Refresher = engine.NopRefresher{}
	if a.cfg.Menu.RefreshDatabase {
		refresher = engine.CommandRefresher{Command: refreshCommand}
	}

	e, err := engine.New(engine.Config{
		FS:         a.fs,
		Resolver:   resolver,
		Host:       a.cfg.Host(),
		MenuExport: a.cfg.Menu.Export,
		Registry:   reg,
		Snapshot: func() ([]types.ApplicationRecord, error) {
			return registry.Snapshot(a.fs, backend, regPath)
		},
		Locker:    a.locker(resolver),
		Generator: desktopentry.NewGenerator(a.cfg.GeneratorOptions()),
		Refresher: refresher,
	})
	if err != nil {
		_ = reg.Close()
		return nil, nil, err
	}

	closer := func() {
		if err := reg.Close(); err != nil {
			logger := logging.GetLogger("cli")
			logger.Warn().Err(err).Msg("Failed to close registry")
		}
	}
	return e, closer, nil
}

// withEngine runs fn against a freshly opened engine
func (a *app) withEngine(fn func(e *engine.Engine) error) error {
	e, closer, err := a.openEngine()
	if err != nil {
		return err
	}
	defer closer()
	return fn(e)
}

// installedIDs completes application ids from the last committed
// registry state without taking the lock
func (a *app) installedIDs() []string {
	resolver, err := a.resolver()
	if err != nil {
		return nil
	}
	backend := a.cfg.Registry.Backend
	records, err := registry.Snapshot(a.fs, backend, resolver.RegistryPath(backend))
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}
