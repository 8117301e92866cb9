package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dogechain-lab/smartwallet/authority"
	"github.com/dogechain-lab/smartwallet/helper/kvdb"
	"github.com/dogechain-lab/smartwallet/helper/kvdb/leveldb"
	"github.com/dogechain-lab/smartwallet/helper/telemetry"
	"github.com/dogechain-lab/smartwallet/state"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	loggerDomainName = "smartwallet"
	metricsNamespace = "smartwallet"
)

// Server wires the account store, the authorization registry and the
// executor together
type Server struct {
	logger hclog.Logger
	config *Config

	db       kvdb.KVBatchStorage
	store    *state.Store
	executor *state.Executor

	metricsRegistry  *prometheus.Registry
	prometheusServer *http.Server
	tracerProvider   telemetry.TracerProvider
}

// newFileLogger returns logger instance that writes all logs to a specified file.
func newFileLogger(config *Config) (hclog.Logger, error) {
	logFileWriter, err := os.OpenFile(
		config.LogFilePath,
		os.O_CREATE+os.O_RDWR+os.O_APPEND,
		0640,
	)
	if err != nil {
		return nil, fmt.Errorf("could not create log file, %w", err)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   loggerDomainName,
		Level:  config.LogLevel,
		Output: logFileWriter,
	}), nil
}

// newCLILogger returns minimal logger instance that sends all logs to standard output
func newCLILogger(config *Config) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  loggerDomainName,
		Level: config.LogLevel,
	})
}

// newLoggerFromConfig logs to LogFilePath when set, to standard output otherwise
func newLoggerFromConfig(config *Config) (hclog.Logger, error) {
	if config.LogFilePath != "" {
		return newFileLogger(config)
	}

	return newCLILogger(config), nil
}

func newLevelDBBuilder(logger hclog.Logger, config *Config, path string) leveldb.Builder {
	builder := leveldb.NewBuilder(logger, path)

	opts := config.LeveldbOptions
	if opts == nil {
		return builder
	}

	return builder.SetCacheSize(opts.CacheSize).
		SetHandles(opts.Handles).
		SetBloomKeyBits(opts.BloomKeyBits).
		SetCompactionTableSize(opts.CompactionTableSize).
		SetCompactionTotalSize(opts.CompactionTotalSize).
		SetNoSync(opts.NoSync)
}

func (s *Server) openDatabase() (kvdb.KVBatchStorage, error) {
	if s.config.DataDir == "" {
		s.logger.Warn("no data directory, accounts are kept in memory")

		return leveldb.NewMemory(s.logger)
	}

	if err := createDir(s.config.DataDir); err != nil {
		return nil, fmt.Errorf("failed to create data dir: (%s): %w", s.config.DataDir, err)
	}

	return newLevelDBBuilder(s.logger, s.config, s.config.DataDir).Build()
}

func (s *Server) setupTelemetry() error {
	if s.config.Telemetry == nil {
		s.config.Telemetry = &Telemetry{}
	}

	s.metricsRegistry = prometheus.NewRegistry()

	if url := s.config.Telemetry.JaegerURL; url != "" {
		provider, err := telemetry.NewJaegerTracerProvider(url, loggerDomainName)
		if err != nil {
			return fmt.Errorf("failed to create jaeger tracer: %w", err)
		}

		s.tracerProvider = provider
	} else {
		s.tracerProvider = telemetry.NewNilTracerProvider()
	}

	if addr := s.config.Telemetry.PrometheusAddr; addr != nil {
		s.prometheusServer = s.startPrometheusServer(addr)
	}

	return nil
}

func (s *Server) executorMetrics() *state.Metrics {
	if s.config.Telemetry.PrometheusAddr == nil {
		return state.NilMetrics()
	}

	m := state.GetPrometheusMetrics(metricsNamespace, "chain_id", strconv.FormatUint(s.config.ChainID, 10))
	m.Register(s.metricsRegistry)

	return m
}

// NewServer creates the service from config
func NewServer(config *Config) (*Server, error) {
	logger, err := newLoggerFromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("could not setup new logger instance, %w", err)
	}

	s := &Server{
		logger: logger,
		config: config,
	}

	if err := s.setupTelemetry(); err != nil {
		return nil, err
	}

	if s.db, err = s.openDatabase(); err != nil {
		s.Close()

		return nil, fmt.Errorf("failed to open account database: %w", err)
	}

	if config.Cache == nil {
		config.Cache = DefaultConfig().Cache
	}

	if s.store, err = state.NewStore(logger, s.db, config.Cache.Accounts, config.Cache.CodeBytes); err != nil {
		s.Close()

		return nil, err
	}

	verifier, err := authority.NewVerifier(config.Cache.Signers)
	if err != nil {
		s.Close()

		return nil, err
	}

	registry := authority.NewRegistry(logger, config.ChainID, verifier)

	s.executor, err = state.NewExecutor(
		logger,
		config.stateConfig(),
		s.store,
		registry,
		s.executorMetrics(),
		s.tracerProvider.NewTracer("executor"),
	)
	if err != nil {
		s.Close()

		return nil, err
	}

	logger.Info("delegation service started",
		"chain_id", config.ChainID,
		"revocation", config.RevocationPolicy,
		"init_atomicity", config.InitAtomicity,
		"batch", config.BatchPolicy,
		"require_deployed_code", config.RequireDeployedCode,
	)

	return s, nil
}

// Executor returns the submission and read surface
func (s *Server) Executor() *state.Executor {
	return s.executor
}

// MetricsRegistry returns the registry served on the prometheus address
func (s *Server) MetricsRegistry() *prometheus.Registry {
	return s.metricsRegistry
}

func (s *Server) Close() {
	if s.prometheusServer != nil {
		if err := s.prometheusServer.Shutdown(context.Background()); err != nil {
			s.logger.Error("Prometheus server shutdown error", "err", err)
		}
	}

	if s.tracerProvider != nil {
		if err := s.tracerProvider.Shutdown(context.Background()); err != nil {
			s.logger.Error("failed to shutdown tracer provider", "err", err)
		}
	}

	s.logger.Info("close account storage")

	switch {
	case s.store != nil:
		if err := s.store.Close(); err != nil {
			s.logger.Error("failed to close account storage", "err", err)
		}
	case s.db != nil:
		if err := s.db.Close(); err != nil {
			s.logger.Error("failed to close account database", "err", err)
		}
	}
}

func (s *Server) startPrometheusServer(listenAddr *net.TCPAddr) *http.Server {
	srv := &http.Server{
		Addr: listenAddr.String(),
		Handler: promhttp.InstrumentMetricHandler(
			s.metricsRegistry, promhttp.HandlerFor(
				s.metricsRegistry,
				promhttp.HandlerOpts{},
			),
		),
		ReadHeaderTimeout: time.Minute,
	}

	go func() {
		s.logger.Info("Prometheus server started", "addr", listenAddr.String())

		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Prometheus HTTP server ListenAndServe", "err", err)
		}
	}()

	return srv
}

// createDir creates a file system directory if it doesn't exist
func createDir(path string) error {
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, os.ModePerm); err != nil {
			return err
		}
	}

	return nil
}
