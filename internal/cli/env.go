package cli

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/funvibe/funsql/internal/config"
	"github.com/funvibe/funsql/internal/descpool"
	"github.com/funvibe/funsql/internal/types"
)

// environment bundles what a subcommand resolves from funsql.yaml: the
// configuration, the language options, and the descriptor pool backing
// PROTO and ENUM catalog types.
type environment struct {
	cfg     *config.Config
	baseDir string
	opts    *types.LanguageOptions
	pool    *descpool.Pool
	log     *zap.Logger
}

// loadEnvironment reads the configuration named by --config, or
// searches upward from the working directory. Without a configuration
// file the defaults apply.
func loadEnvironment(rootOpts *RootOptions) (*environment, error) {
	path := rootOpts.Config
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return nil, err
		}
		path = found
	}

	env := &environment{log: newLogger(rootOpts.Verbose)}
	if path == "" {
		env.cfg = config.DefaultConfig()
	} else {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		env.cfg = cfg
		env.baseDir = filepath.Dir(path)
	}

	opts, err := env.cfg.LanguageOptions()
	if err != nil {
		return nil, err
	}
	env.opts = opts

	if len(env.cfg.ProtoFiles) > 0 {
		importPaths := make([]string, len(env.cfg.ProtoPaths))
		for i, p := range env.cfg.ProtoPaths {
			importPaths[i] = env.resolve(p)
		}
		pool := descpool.New()
		if err := pool.LoadFiles(importPaths, env.cfg.ProtoFiles...); err != nil {
			return nil, err
		}
		env.pool = pool
	}
	return env, nil
}

// resolve interprets a configured path relative to the directory of the
// configuration file it came from.
func (e *environment) resolve(path string) string {
	if e.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.baseDir, path)
}

// catalogPaths returns the catalog files to operate on. Explicit
// arguments win over the configured list.
func (e *environment) catalogPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(e.cfg.Catalogs) == 0 {
		return nil, fmt.Errorf("no catalog files: pass paths or list them in funsql.yaml")
	}
	paths := make([]string, len(e.cfg.Catalogs))
	for i, p := range e.cfg.Catalogs {
		paths[i] = e.resolve(p)
	}
	return paths, nil
}

// storePath resolves the sqlite store path, preferring the --store
// flag over the configured one.
func (e *environment) storePath(override string) string {
	if override != "" {
		return override
	}
	return e.resolve(e.cfg.StorePath)
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.NewNop()
}
