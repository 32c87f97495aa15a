package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/landhud/backend/internal/api"
	"github.com/landhud/backend/internal/blob"
	"github.com/landhud/backend/internal/config"
	"github.com/landhud/backend/internal/leadlist"
	"github.com/landhud/backend/internal/notify"
	"github.com/landhud/backend/internal/store"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := os.Getenv("LANDHUD_CONFIG")
	if configPath == "" {
		configPath = "landhud.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Initialize the record store
	records, err := store.NewDuckStore(cfg.Storage.DatabaseFile)
	if err != nil {
		fmt.Printf("Failed to initialize record store: %v\n", err)
		os.Exit(1)
	}
	defer records.Close()

	// Initialize blob storage
	blobs, err := blob.NewLocalStore(cfg.Storage.UploadsDirectory, cfg.Webhook.CallbackBaseURL)
	if err != nil {
		fmt.Printf("Failed to initialize blob storage: %v\n", err)
		os.Exit(1)
	}

	// Outbound processor webhook
	notifier := notify.NewWebhookNotifier(cfg.Webhook.Endpoint)

	// Lead list lifecycle service
	service := leadlist.NewService(records, blobs, notifier, cfg.Webhook.CallbackBaseURL)

	handlers := api.NewHandlers(&api.Dependencies{
		Records: records,
		Blobs:   blobs,
		Service: service,
		Version: Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Logging.RequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/status") || path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			return strings.Contains(c.Request().URL.Path, "/upload")
		},
		ErrorMessage: "Request timeout",
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.AllowOrigins != "" {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	api.RegisterRoutes(e, handlers)

	s := &http.Server{
		Addr:         cfg.ServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("LandHUD lead list backend %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  Config:    %s\n", configPath)
	fmt.Printf("  Listen:    http://%s\n", cfg.ServerAddr())
	fmt.Printf("  Data Dir:  %s\n", cfg.Storage.DataDirectory)
	fmt.Printf("  Processor: %s\n", cfg.Webhook.Endpoint)

	e.Logger.Fatal(e.StartServer(s))
}
