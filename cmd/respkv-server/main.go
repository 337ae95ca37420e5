package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/infra/tlsroots"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

type flags struct {
	configFile  string
	envFile     string
	addr        string
	logLevel    string
	showVersion bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var f flags
	flag.StringVar(&f.configFile, "config", "", "Path to configuration file")
	flag.StringVar(&f.envFile, "env-file", "", "Path to a .env file")
	flag.StringVar(&f.addr, "addr", "", "RESP listen address (overrides server.redis.addr)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (overrides log.level)")
	flag.BoolVar(&f.showVersion, "version", false, "Show version information")
	flag.Parse()

	if f.showVersion {
		fmt.Println("respkv-server " + buildinfo.String())
		return nil
	}

	loader := newLoader(f)
	cfg, err := loadConfig(loader, f)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	info := buildinfo.Get()
	log.Info("starting respkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", loader.FilePath(),
		"settings", config.Sanitize(cfg),
	)

	store := memory.New(memory.WithLogger(log))
	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewStoreCollector(store))

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)

	var serverTLS *tls.Config
	if cfg.Server.Redis.TLS.Enabled {
		certWatcher, err := tlsroots.NewWatcher(cfg.Server.Redis.TLS.CertFile, cfg.Server.Redis.TLS.KeyFile,
			tlsroots.WithLogger(log))
		if err != nil {
			return fmt.Errorf("load tls certificate: %w", err)
		}
		if err := certWatcher.Start(); err != nil {
			return fmt.Errorf("watch tls certificate: %w", err)
		}
		shutdownHandler.OnShutdown("tls-watcher", func(context.Context) error {
			certWatcher.Stop()
			return nil
		})
		serverTLS = certWatcher.ServerConfig()
	}

	respServer := redisserver.New(redisConfig(cfg, serverTLS), store, metrics, log)
	if err := respServer.Start(context.Background()); err != nil {
		return fmt.Errorf("start resp server: %w", err)
	}
	shutdownHandler.OnShutdown("resp-server", respServer.Shutdown)

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics:   metrics,
			Store:     store,
			Logger:    log,
			StartedAt: time.Now(),
		})
		adminServer := httpserver.New(cfg.Server.HTTP.Addr, router, log)
		if err := adminServer.Start(); err != nil {
			return fmt.Errorf("start admin http server: %w", err)
		}
		shutdownHandler.OnShutdown("admin-http", adminServer.Shutdown)
	}

	if path := loader.FilePath(); path != "" {
		stop, err := watchConfig(path, loader, f, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error { return stop() })
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(context.Background()); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func newLoader(f flags) *confloader.Loader {
	opts := []confloader.Option{
		confloader.WithDefaults(config.Default().Map()),
	}
	if f.configFile != "" {
		opts = append(opts, confloader.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, confloader.WithDotEnv(f.envFile))
	}
	return confloader.NewLoader(opts...)
}

// loadConfig loads, applies flag overrides and validates the configuration.
func loadConfig(loader *confloader.Loader, f flags) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := finishConfig(cfg, f); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reloadConfig is loadConfig starting from a fresh loader state.
func reloadConfig(loader *confloader.Loader, f flags) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Reload(cfg); err != nil {
		return nil, err
	}
	if err := finishConfig(cfg, f); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finishConfig(cfg *config.ServerConfig, f flags) error {
	if f.addr != "" {
		cfg.Server.Redis.Addr = f.addr
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return config.Verify(cfg)
}

func redisConfig(cfg *config.ServerConfig, tlsCfg *tls.Config) *redisserver.Config {
	rc := cfg.Server.Redis
	return &redisserver.Config{
		Addr:         rc.Addr,
		TLSEnabled:   rc.TLS.Enabled,
		TLSAddr:      rc.TLS.Addr,
		TLSConfig:    tlsCfg,
		ReadBuffer:   rc.ReadBuffer,
		IdleTimeout:  rc.IdleTimeout,
		WriteTimeout: rc.WriteTimeout,
		RateLimit:    rc.RateLimit,
	}
}

// watchConfig reloads the config file on change. Only log.level takes
// effect without a restart.
func watchConfig(path string, loader *confloader.Loader, f flags, log *slog.Logger) (func() error, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := reloadConfig(loader, f)
		if err != nil {
			log.Error("config reload rejected", "error", err)
			return
		}
		if logger.ParseLevel(cfg.Log.Level) != logger.ParseLevel(logger.GetLevel()) {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()

	return w.Stop, nil
}
