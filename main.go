package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aerth/studiod/config"
	"github.com/aerth/studiod/system"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags "-X main.Version=..."
var Version = "1.0.0"

var info = "studiod studio website backend"

func main() {
	var (
		devmode     = false
		addr        = ""
		configpath  = ""
		showVersion = false
	)

	flag.StringVar(&addr, "addr", addr, "address to serve (overrides $PORT)")
	flag.BoolVar(&devmode, "dev", devmode, "development mode (error details sent to clients)")
	flag.StringVar(&configpath, "conf", configpath, "optional path to a .json or .yaml config file")
	flag.BoolVar(&showVersion, "version", false, "show version and exit")
	doConfigDump := flag.Bool("dumpconfig", false, "dump config and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(info, Version)
		os.Exit(0)
	}

	cfg, err := config.Load(configpath)
	if err != nil {
		log.Fatalln("config error:", err)
	}
	cfg.Meta.Version = Version
	if devmode {
		cfg.Meta.Environment = "development"
	}
	if addr != "" {
		cfg.Meta.ListenAddr = addr
	}
	if err := config.CheckConfig(cfg); err != nil {
		log.Fatalln("config error:", err)
	}

	if *doConfigDump {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			log.Fatalln(err)
		}
		return
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalln("logger error:", err)
	}
	defer logger.Sync()

	s, err := system.New(cfg, logger)
	if err != nil {
		logger.Fatal("boot error", zap.Error(err))
	}

	if cfg.Meta.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", s.Metrics().Handler())
			logger.Info("serving metrics", zap.String("address", cfg.Meta.MetricsAddr))
			if err := http.ListenAndServe(cfg.Meta.MetricsAddr, mux); err != nil {
				logger.Fatal("metrics listener failed", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("serving HTTP",
		zap.String("address", srv.Addr),
		zap.String("environment", cfg.Meta.Environment),
		zap.String("version", Version),
		zap.String("public", cfg.Meta.PathPublic),
	)
	// no graceful shutdown: any serve error ends the process with status 1
	logger.Fatal("server stopped", zap.Error(srv.ListenAndServe()))
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.DevelopmentMode() {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Meta.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.Meta.LogLevel)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", cfg.Meta.ServiceName)), nil
}
