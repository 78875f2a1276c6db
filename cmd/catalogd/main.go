// catalogd serves the built-in product table over HTTP so the CLI's remote
// catalog path can be exercised locally.
//
// Usage:
//
//	catalogd [-addr :8089] [-verbose]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottocart/internal/catalog"
	"github.com/hammamikhairi/ottocart/internal/config"
	"github.com/hammamikhairi/ottocart/internal/logger"
	"github.com/hammamikhairi/ottocart/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.CatalogdAddr, "listen address")
	apiKey := flag.String("api-key", cfg.CatalogKey, "require this key in the api-key header (empty disables the check)")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	log := logger.New(logLevel, os.Stderr)
	if log.GetLevel() < logger.LevelVerbose {
		gin.SetMode(gin.ReleaseMode)
	}

	resolver := catalog.NewMemoryResolver(log.Named("catalog"))
	srv := &http.Server{
		Addr:              *addr,
		Handler:           router.NewRouter(resolver, log.Named("http"), *apiKey),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("catalogd listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown: %v", err)
	}
	log.Info("catalogd stopped")
}
