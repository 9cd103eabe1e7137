package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"strings"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/registry"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every configuration environment variable
	EnvPrefix = "LBI_"

	// EnvConfigFile points at an alternative user configuration file
	EnvConfigFile = "LBI_CONFIG"

	// envSectionSeparator separates section and key in variable names
	envSectionSeparator = "__"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// DefaultsContent returns the embedded defaults file
func DefaultsContent() string {
	return string(defaultConfig)
}

// Options tune a Load call
type Options struct {
	// Path is the user file to read. Empty means $LBI_CONFIG, then the
	// XDG default. A missing default file is not an error; a missing
	// explicit one is.
	Path string

	// Overrides are applied last, keyed by dotted path ("root",
	// "menu.export").
	Overrides map[string]interface{}

	// SkipEnv ignores LBI_* variables
	SkipEnv bool
}

// Load builds the effective configuration
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse built-in defaults")
	}

	path, explicit := userConfigPath(opts.Path)
	source := ""
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path).
				WithDetail("path", path)
		}
		source = path
		logger.Debug().Str("path", path).Msg("Loaded config file")
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
			WithDetail("path", path)
	}

	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	cfg.Source = source

	if err := postProcess(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps LBI_LOCK__MAX_BACKOFF to lock.max_backoff
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, envSectionSeparator, ".")
}

func userConfigPath(path string) (string, bool) {
	if path != "" {
		return paths.ExpandHome(path), true
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		return paths.ExpandHome(p), true
	}
	return paths.DefaultConfigPath(), false
}

// postProcess resolves host defaults and validates the result
func postProcess(cfg *Config) error {
	root, err := paths.NormalizePath(cfg.Root)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "invalid root").WithDetail("root", cfg.Root)
	}
	cfg.Root = root

	if cfg.Menu.Dir == "" {
		cfg.Menu.Dir = paths.DefaultMenuDir()
	} else {
		cfg.Menu.Dir = paths.ExpandHome(cfg.Menu.Dir)
	}
	if cfg.Desktop.Dir == "" {
		cfg.Desktop.Dir = paths.DefaultDesktopDir()
	} else {
		cfg.Desktop.Dir = paths.ExpandHome(cfg.Desktop.Dir)
	}

	cfg.Registry.Backend = strings.ToLower(strings.TrimSpace(cfg.Registry.Backend))
	switch cfg.Registry.Backend {
	case registry.BackendJSON, registry.BackendSQLite:
	default:
		return errors.Newf(errors.ErrConfigParse, "unknown registry backend %q", cfg.Registry.Backend).
			WithDetail("backend", cfg.Registry.Backend)
	}

	if cfg.Lock.Retries < 0 || cfg.Lock.Backoff < 0 || cfg.Lock.MaxBackoff < 0 {
		return errors.New(errors.ErrConfigParse, "lock retries and backoff must not be negative")
	}
	if strings.ContainsRune(cfg.Menu.Prefix, '/') {
		return errors.Newf(errors.ErrConfigParse, "menu prefix %q must not contain '/'", cfg.Menu.Prefix)
	}

	categories := cfg.DesktopEntry.DefaultCategories[:0]
	for _, c := range cfg.DesktopEntry.DefaultCategories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	cfg.DesktopEntry.DefaultCategories = categories
	return nil
}
