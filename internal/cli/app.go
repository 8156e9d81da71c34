package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/haras/internal/backup"
	"github.com/mesh-intelligence/haras/internal/breeding"
	"github.com/mesh-intelligence/haras/internal/collection"
	"github.com/mesh-intelligence/haras/internal/metrics"
	"github.com/mesh-intelligence/haras/internal/paths"
	"github.com/mesh-intelligence/haras/internal/share"
	"github.com/mesh-intelligence/haras/pkg/store"
	"github.com/mesh-intelligence/haras/pkg/types"
)

// app is the state shared by the subcommands of one invocation. The store
// is opened lazily by the commands that need it and released by run.
type app struct {
	flags     rootFlags
	configDir string
	dataDir   string
	cfg       *viper.Viper
	logger    *slog.Logger

	store    types.Store
	metrics  *metrics.Metrics
	horses   *collection.Collection
	breeding *breeding.Service
}

// configure resolves the config directory, loads config.yaml and builds
// the logger. It touches nothing on disk.
func (a *app) configure(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("Erro ao localizar o diretório de configuração.", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return userError("Erro ao ler config.yaml.", err)
	}
	if a.flags.backend != "" {
		v.Set(cfgKeyBackend, a.flags.backend)
	}
	if a.flags.logLevel != "" {
		v.Set(cfgKeyLogLevel, a.flags.logLevel)
	}

	logger, err := newLogger(v.GetString(cfgKeyLogLevel), v.GetString(cfgKeyLogFormat), cmd.ErrOrStderr())
	if err != nil {
		return userError(fmt.Sprintf("Configuração inválida: %v.", err), err)
	}

	a.configDir = configDir
	a.cfg = v
	a.logger = logger
	return nil
}

// storeConfig resolves the backend and data directory of this invocation.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError(msgStorage, err)
	}
	cfg := types.Config{Backend: a.cfg.GetString(cfgKeyBackend), DataDir: dataDir}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(fmt.Sprintf("Backend inválido: %q (use sqlite ou jsonl).", cfg.Backend), err)
	}
	return cfg, nil
}

// open attaches the store, loads the collection and builds the breeding
// flows. Every store call goes through the metrics decorator.
func (a *app) open() error {
	if a.horses != nil {
		return nil
	}
	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}
	backend, err := store.New(cfg.Backend, store.WithLogger(a.logger))
	if err != nil {
		return userError(fmt.Sprintf("Backend inválido: %q (use sqlite ou jsonl).", cfg.Backend), err)
	}

	a.metrics = metrics.New()
	instrumented := metrics.InstrumentStore(backend, a.metrics)
	if err := instrumented.Attach(cfg); err != nil {
		return err
	}
	a.store = instrumented
	a.dataDir = cfg.DataDir
	a.logger.Debug("store attached", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	horses := collection.New(instrumented, collection.WithLogger(a.logger))
	if err := horses.Load(); err != nil {
		return err
	}
	a.horses = horses
	a.breeding = breeding.New(horses, breeding.WithLogger(a.logger))
	return nil
}

// close writes the metrics textfile, if configured, and detaches the store.
func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	if path := a.cfg.GetString(cfgKeyMetricsTextfile); path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Warn("writing metrics textfile", "path", path, "error", err)
		}
	}
	err := a.store.Detach()
	a.store = nil
	return err
}

// shareTarget opens the configured backup destination. dirFlag overrides
// export.dir for the filesystem driver.
func (a *app) shareTarget(ctx context.Context, dirFlag string) (share.Target, error) {
	cfg := share.Config{Driver: share.Driver(a.cfg.GetString(cfgKeyExportTarget))}
	switch cfg.Driver {
	case share.DriverS3:
		cfg.S3 = share.S3Config{
			Bucket:    a.cfg.GetString(cfgKeyS3Bucket),
			Region:    a.cfg.GetString(cfgKeyS3Region),
			Endpoint:  a.cfg.GetString(cfgKeyS3Endpoint),
			PathStyle: a.cfg.GetBool(cfgKeyS3PathStyle),
			Prefix:    a.cfg.GetString(cfgKeyS3Prefix),
		}
	default:
		dir, err := paths.ResolveExportDir(dirFlag, a.cfg.GetString(cfgKeyExportDir))
		if err != nil {
			return nil, sysError("Erro ao localizar o diretório de exportação.", err)
		}
		cfg.Dir = dir
	}

	target, err := share.Open(ctx, cfg)
	if err != nil {
		return nil, userError(fmt.Sprintf("Destino de exportação inválido: %v.", err), err)
	}
	return target, nil
}

// backupService binds the backup flows to target.
func (a *app) backupService(target backup.Target) *backup.Service {
	return backup.NewService(a.horses, target, backup.WithLogger(a.logger))
}
