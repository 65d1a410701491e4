package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError reports which stage of loading failed.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// A variable named FOO_SSM_PARAM holds the parameter path whose value
// becomes FOO.
const ssmParamSuffix = "_SSM_PARAM"

const localEnv = "local"

const ssmResolveTimeout = 20 * time.Second

// Environments that must run against Postgres.
var durableEnvs = []string{"staging", "prod"}

// env abstracts the process environment so tests can run without mutating it.
type env struct {
	lookup  func(key string) (string, bool)
	set     func(key, value string) error
	environ func() []string
}

func osEnv() env {
	return env{lookup: os.LookupEnv, set: os.Setenv, environ: os.Environ}
}

// LoadConfig reads .env (if present), resolves _SSM_PARAM pointers through
// provider when APP_ENV is not local, then populates and validates Config.
// provider may be nil when no pointers are set.
func LoadConfig(provider SecretProvider) (*Config, error) {
	return load(provider, osEnv())
}

func load(provider SecretProvider, e env) (*Config, error) {
	time.Local = time.UTC

	// Missing .env is fine; existing variables win over the file.
	_ = godotenv.Load()

	if appEnv, _ := e.lookup("APP_ENV"); appEnv != localEnv {
		if err := resolveSSMParams(provider, e); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{Type: ErrParsing, Message: "failed to process environment configuration", Err: err}
	}
	cfg.Build = NewBuildInfo()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{Type: ErrValidation, Message: "configuration validation failed", Err: err}
	}

	if slices.Contains(durableEnvs, cfg.Environment) && !cfg.Database.Enabled() {
		return nil, &ConfigError{
			Type:    ErrMissingEnv,
			Message: fmt.Sprintf("DATABASE_URL is required when APP_ENV=%s", cfg.Environment),
		}
	}

	return &cfg, nil
}

// resolveSSMParams fetches every FOO_SSM_PARAM path in one batch and sets
// FOO. A FOO that is already set is left alone.
func resolveSSMParams(provider SecretProvider, e env) error {
	targets := make(map[string]string) // path -> variable
	var paths []string

	for _, entry := range e.environ() {
		key, path, ok := strings.Cut(entry, "=")
		if !ok || path == "" || !strings.HasSuffix(key, ssmParamSuffix) {
			continue
		}
		target := strings.TrimSuffix(key, ssmParamSuffix)
		if _, set := e.lookup(target); set {
			continue
		}
		if _, dup := targets[path]; !dup {
			paths = append(paths, path)
		}
		targets[path] = target
	}

	if len(paths) == 0 {
		return nil
	}
	slices.Sort(paths)

	if provider == nil {
		return &ConfigError{
			Type:    ErrSSMResolution,
			Message: fmt.Sprintf("a secret provider is required to resolve %d parameters", len(paths)),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), ssmResolveTimeout)
	defer cancel()

	values, err := provider.GetParametersBatch(ctx, paths)
	if err != nil {
		return &ConfigError{Type: ErrSSMResolution, Message: "failed to resolve SSM parameters", Err: err}
	}

	var missing []string
	for _, path := range paths {
		value, ok := values[path]
		if !ok {
			missing = append(missing, targets[path])
			continue
		}
		if err := e.set(targets[path], value); err != nil {
			return &ConfigError{Type: ErrSSMResolution, Message: "failed to set " + targets[path], Err: err}
		}
	}
	if len(missing) > 0 {
		return &ConfigError{
			Type:    ErrSSMResolution,
			Message: "parameters not found for " + strings.Join(missing, ", "),
		}
	}
	return nil
}
