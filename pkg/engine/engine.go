package engine

import (
	"context"
	"time"

	"github.com/arthur-debert/lbi/pkg/artifact"
	"github.com/arthur-debert/lbi/pkg/desktopentry"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/lock"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/registry"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Config wires an Engine. FS, Resolver, Registry and Locker are required.
type Config struct {
	FS       afero.Fs
	Resolver *paths.Resolver
	Host     paths.Host

	// MenuExport places each desktop entry in Host.MenuDir.
	MenuExport bool

	Registry registry.Registry
	// Snapshot lists committed records without the lock. Nil falls back
	// to Registry.List.
	Snapshot func() ([]types.ApplicationRecord, error)

	Locker    lock.Locker
	Generator *desktopentry.Generator
	Refresher Refresher
	Clock     func() time.Time
}

// Engine orchestrates operations on installed applications.
type Engine struct {
	fs         afero.Fs
	resolver   *paths.Resolver
	host       paths.Host
	menuExport bool

	registry registry.Registry
	snapshot func() ([]types.ApplicationRecord, error)
	locker   lock.Locker

	writer    *artifact.Writer
	generator *desktopentry.Generator
	refresher Refresher
	clock     func() time.Time
	logger    zerolog.Logger
}

// New creates an Engine from cfg
func New(cfg Config) (*Engine, error) {
	if cfg.FS == nil || cfg.Resolver == nil || cfg.Registry == nil || cfg.Locker == nil {
		return nil, errors.New(errors.ErrInternal, "engine requires a filesystem, resolver, registry and locker")
	}

	e := &Engine{
		fs:         cfg.FS,
		resolver:   cfg.Resolver,
		host:       cfg.Host,
		menuExport: cfg.MenuExport && cfg.Host.MenuDir != "",
		registry:   cfg.Registry,
		snapshot:   cfg.Snapshot,
		locker:     cfg.Locker,
		writer:     artifact.NewWriter(cfg.FS),
		generator:  cfg.Generator,
		refresher:  cfg.Refresher,
		clock:      cfg.Clock,
		logger:     logging.GetLogger("engine"),
	}
	if e.snapshot == nil {
		e.snapshot = cfg.Registry.List
	}
	if e.generator == nil {
		e.generator = desktopentry.NewGenerator(desktopentry.DefaultOptions())
	}
	if e.refresher == nil {
		e.refresher = NopRefresher{}
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	return e, nil
}

// Resolver returns the path resolver the engine installs under
func (e *Engine) Resolver() *paths.Resolver {
	return e.resolver
}

// Render returns the desktop entry the engine would write for rec.
func (e *Engine) Render(rec types.ApplicationRecord) []byte {
	return e.generator.Render(rec)
}

// operation carries the per-call logger.
type operation struct {
	name   string
	id     string
	logger zerolog.Logger
}

func (e *Engine) begin(name string) (*operation, func()) {
	lop := logging.StartOperation(e.logger, name)
	return &operation{name: lop.Name, id: lop.ID, logger: lop.Logger}, lop.Done
}

// mutate runs fn under the lock after a reconciliation pass and refreshes
// the menu database on success.
func (e *Engine) mutate(ctx context.Context, op *operation, fn func() error) error {
	if err := e.locker.Lock(ctx); err != nil {
		op.logger.Warn().Err(err).Msg("Could not acquire registry lock")
		return err
	}
	defer func() {
		if err := e.locker.Unlock(); err != nil {
			op.logger.Error().Err(err).Msg("Failed to release registry lock")
		}
	}()

	if _, err := e.reconcile(op); err != nil {
		return boundary(err)
	}
	if err := fn(); err != nil {
		return boundary(err)
	}
	e.refresh(ctx, op)
	return nil
}

func (e *Engine) now() time.Time {
	return e.clock().UTC()
}

// boundary makes sure every error leaving the engine carries a code.
func boundary(err error) error {
	if err == nil {
		return nil
	}
	if errors.GetErrorCode(err) != errors.ErrUnknown {
		return err
	}
	return errors.Wrap(err, errors.ErrInternal, "unexpected failure")
}
