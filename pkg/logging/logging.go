package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// App is stamped on every line so lbi output can be picked out of a shared
// log file.
const App = "lbi"

// Field names shared by every lbi log line.
const (
	FieldApp       = "app"
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldOpID      = "opID"
)

// levels maps the -v count to a level; counts past the end clamp to trace.
var levels = []zerolog.Level{
	zerolog.WarnLevel,
	zerolog.InfoLevel,
	zerolog.DebugLevel,
	zerolog.TraceLevel,
}

// LevelFor returns the level selected by a verbosity count.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity < 0:
		return levels[0]
	case verbosity >= len(levels):
		return levels[len(levels)-1]
	default:
		return levels[verbosity]
	}
}

// Options configures Setup. A zero Console means stderr; an empty LogFile
// means LogFilePath(); DisableFile turns the file sink off entirely.
type Options struct {
	Verbosity   int
	Console     io.Writer
	NoColor     bool
	LogFile     string
	DisableFile bool
}

// Setup installs the global logger described by opts and returns the log
// file path in use ("" when only the console is written).
func Setup(opts Options) string {
	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	noColor := opts.NoColor
	if console == nil {
		console = os.Stderr
		noColor = noColor || !isTerminal(os.Stderr)
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}}

	var (
		path    string
		fileErr error
	)
	if !opts.DisableFile {
		path = opts.LogFile
		if path == "" {
			path = LogFilePath()
		}
		var f *os.File
		if f, fileErr = openLogFile(path); fileErr == nil {
			writers = append(writers, f)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Str(FieldApp, App)
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Failed to create log file, logging to console only")
		path = ""
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", path).Msg("Logger initialized")
	return path
}

// SetupLogger is Setup with the CLI defaults: stderr plus the state log file.
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity})
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str(FieldComponent, name).Logger()
}

// WithOperation tags logger with an operation name and id so every line of
// one install/update/uninstall can be correlated.
func WithOperation(logger zerolog.Logger, operation, id string) zerolog.Logger {
	return logger.With().Str(FieldOperation, operation).Str(FieldOpID, id).Logger()
}

// Operation is one tagged unit of engine work.
type Operation struct {
	Name   string
	ID     string
	Logger zerolog.Logger
	start  time.Time
}

// StartOperation allocates an op id, tags logger with it and logs the start.
// Call Done when the operation returns.
func StartOperation(logger zerolog.Logger, name string) *Operation {
	op := &Operation{Name: name, ID: uuid.NewString(), start: time.Now()}
	op.Logger = WithOperation(logger, name, op.ID)
	op.Logger.Debug().Msg("Operation started")
	return op
}

// Done logs completion with the elapsed time.
func (op *Operation) Done() {
	op.Logger.Debug().Dur("duration", time.Since(op.start)).Msg("Operation completed")
}

// LogFilePath is $XDG_STATE_HOME/lbi/lbi.log, falling back to
// ~/.local/state when the variable is unset.
func LogFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return App + ".log"
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, App, App+".log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
