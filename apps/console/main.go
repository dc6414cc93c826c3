package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/academia/apiclient"
	echoconsole "github.com/trezcool/academia/apps/console/echo"
	"github.com/trezcool/academia/core"
	logsvc "github.com/trezcool/academia/services/logger"
	sessionstore "github.com/trezcool/academia/storage/session"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zl, err := logsvc.NewZap(conf)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	logger := logsvc.New(zl.Named("console"), conf)

	sessions, closer, err := sessionstore.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening session backend: %v", err), err)
	}
	defer func() {
		if err = closer.Close(); err != nil {
			logger.Error("closing session backend", err)
		}
	}()

	api := apiclient.New(conf.API.BaseURL, nil, apiclient.WithTimeout(conf.API.Timeout))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build),
		map[string]interface{}{"api": conf.API.BaseURL, "sessions": conf.Session.Backend})
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	if conf.Server.DebugHost != "" {
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()
	}

	// =========================================================================
	// Start Console Service

	server := echoconsole.NewServer(echoconsole.ServerDeps{
		Conf:     conf,
		Logger:   logger,
		API:      api,
		Sessions: sessions,
	})

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
