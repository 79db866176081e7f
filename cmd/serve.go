package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"render-manager/core/config"
	"render-manager/core/database"
	"render-manager/core/loader"
	"render-manager/core/logger"
	"render-manager/core/middleware/auth"
	"render-manager/core/middleware/rayid"
	"render-manager/core/renderer"
	"render-manager/core/storage"

	"render-manager/feature/export"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "render-manager/docs/swagger"
)

// @title Render Manager API
// @version 1.0
// @description API for rendering plotly figures into static images.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the render manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Build Renderer Configuration
		// Environment settings first, then the per-user settings file on top.
		rcfg := renderer.DefaultConfig()
		if err := rcfg.ApplySettings(cfg.Renderer); err != nil {
			logg.Fatal("Invalid renderer configuration", zap.Error(err))
		}
		rcfg.Reload(logg)

		// 4. Connect to Database (Optional)
		var db *gorm.DB
		if cfg.Database.Enabled {
			if conn, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Render history database connection failed", zap.Error(err))
			} else {
				db = conn
				logg.Info("Connected to render history database", zap.String("driver", cfg.Database.Driver))
			}
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Storage (Optional)
		var store storage.Client
		if cfg.Storage.Enabled {
			s, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			store = s
		}

		// 7. Initialize Render Server Supervisor
		sup := renderer.NewSupervisor(rcfg, logg)

		// 8. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(export.NewFeature(sup, store, cfg.Storage.Bucket, logg, db))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 9. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 10. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 11. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		sup.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
