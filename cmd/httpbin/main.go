package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/always-cache/httpbin"
	"github.com/always-cache/httpbin/assets"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// CLI flags
	configFilenameFlag string
	flagConfig         Config
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

var defaults = Config{
	Port:     8080,
	IP:       "0.0.0.0",
	MaxDelay: 10 * time.Second,
}

func init() {
	flag.StringVar(&configFilenameFlag, "config", "", "YAML config file (flags take precedence)")
	flag.IntVar(&flagConfig.Port, "port", defaults.Port, "Port to listen on")
	flag.IntVar(&flagConfig.TLSPort, "tls-port", 0, "Port to listen on with TLS (requires tls-cert and tls-key)")
	flag.StringVar(&flagConfig.IP, "ip", defaults.IP, "IP address to bind to")
	flag.StringVar(&flagConfig.TLSCert, "tls-cert", "", "TLS certificate file")
	flag.StringVar(&flagConfig.TLSKey, "tls-key", "", "TLS private key file")
	flag.StringVar(&flagConfig.AssetsDB, "assets-db", "", "SQLite file with asset overrides (use 'memory' for in-memory db)")
	flag.IntVar(&flagConfig.MetricsPort, "metrics-port", 0, "Port to expose Prometheus metrics on (disabled if 0)")
	flag.BoolVar(&flagConfig.TrustProxy, "trust-proxy", false, "Take the client address from X-Forwarded-For / X-Real-IP")
	flag.DurationVar(&flagConfig.MaxDelay, "max-delay", defaults.MaxDelay, "Upper bound for /delay")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	config := flagConfig
	if configFilenameFlag != "" {
		fileConfig, err := getConfig(configFilenameFlag)
		if err != nil {
			log.Fatal().Err(err).Str("file", configFilenameFlag).Msg("Could not read config")
		}
		set := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		fileConfig.overrideWith(flagConfig, set)
		config = fileConfig.withDefaults(defaults)
	}

	// embedded assets, optionally overridden from sqlite
	var assetProvider assets.AssetProvider = assets.NewMemAssets()
	if config.AssetsDB != "" {
		dbFilename := config.AssetsDB
		if dbFilename == "memory" {
			dbFilename = "file::memory:?cache=shared"
		}
		sqliteAssets, err := assets.NewSQLiteAssets(dbFilename)
		if err != nil {
			log.Fatal().Err(err).Str("db", dbFilename).Msg("Could not open assets db")
		}
		defer sqliteAssets.Close()
		assetProvider = sqliteAssets
	}

	var metrics *httpbin.Metrics
	if config.MetricsPort != 0 {
		metrics = httpbin.NewMetrics()
	}

	bin := httpbin.New(httpbin.Config{
		Assets:     assetProvider,
		Logger:     &log.Logger,
		Metrics:    metrics,
		TrustProxy: config.TrustProxy,
		MaxDelay:   config.MaxDelay,
	})

	errs := make(chan error, 3)
	if metrics != nil {
		addr := listenAddr(config.IP, config.MetricsPort)
		log.Info().Msgf("Serving metrics on %s", addr)
		go func() { errs <- http.ListenAndServe(addr, metrics.Handler()) }()
	}
	if config.TLSPort != 0 {
		if config.TLSCert == "" || config.TLSKey == "" {
			log.Fatal().Msg("Please specify tls-cert and tls-key for the TLS listener")
		}
		addr := listenAddr(config.IP, config.TLSPort)
		log.Info().Msgf("Serving httpbin with TLS on %s", addr)
		go func() { errs <- http.ListenAndServeTLS(addr, config.TLSCert, config.TLSKey, bin) }()
	}
	addr := listenAddr(config.IP, config.Port)
	log.Info().Msgf("Serving httpbin on %s", addr)
	go func() { errs <- http.ListenAndServe(addr, bin) }()

	err := <-errs
	if err != nil {
		panic(fmt.Errorf("listener stopped: %w", err))
	}
}

func listenAddr(ip string, port int) string {
	return net.JoinHostPort(ip, strconv.Itoa(port))
}
