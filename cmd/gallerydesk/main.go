package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/skratchdot/open-golang/open"

	"github.com/eringen/gallerydesk"
	"github.com/eringen/gallerydesk/telemetry"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := serve(); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Printf("gallerydesk %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gallerydesk - web frontend for the image upload service

Usage:
  gallerydesk [command]

Commands:
  serve         Run the web server (default)
  version       Print the gallerydesk version
  help          Show this help message

Configuration is read from CONFIG_PATH (default ./config.yaml), then from
the environment. A .env file in the working directory is loaded first.`)
}

func getConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(cwd, "config.yaml")
}

func serve() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	configPath := getConfigPath()
	cfg, err := gallerydesk.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config from %s: %w", configPath, err)
	}

	shutdownTracing, err := telemetry.Setup(context.Background(), "gallerydesk", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	app := gallerydesk.New(cfg,
		gallerydesk.WithCustomRoutes(func(a *gallerydesk.App) {
			a.Echo.GET(gallerydesk.HealthPath, func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})
		}),
	)
	if err := app.Setup(); err != nil {
		return err
	}

	go func() {
		if err := app.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	if cfg.OpenBrowser {
		openBrowser(localURL(app.Config.Addr))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Echo.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := app.Close(); err != nil {
		log.Printf("close error: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("tracing shutdown error: %v", err)
	}
	return nil
}

// localURL turns a listen address such as ":3000" into a browsable URL.
var browserOpener = open.Run

// openBrowser opens url in the desktop browser. A failure is logged and
// the server keeps running.
func openBrowser(url string) {
	if err := browserOpener(url); err != nil {
		log.Printf("open browser error: %v", err)
	}
}

func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}
