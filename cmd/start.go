package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drive-manager/core/cache"
	"drive-manager/core/config"
	"drive-manager/core/database"
	"drive-manager/core/loader"
	"drive-manager/core/logger"
	"drive-manager/core/middleware/auth"
	"drive-manager/core/middleware/rayid"
	"drive-manager/core/storage"

	"drive-manager/feature/drive"
	"drive-manager/feature/drive/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "drive-manager/docs/swagger"
)

// @title Drive Manager API
// @version 1.0
// @description API for virtual folders, listing, search and reconciliation over object storage.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the drive manager server",
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

		// 3. Connect to Database (Optional)
		// Without it the engine still manages store objects but keeps no
		// metadata records and cannot reconcile.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			if err := models.Migrate(db); err != nil {
				logg.Fatal("Failed to migrate drive tables", zap.Error(err))
			}
			logg.Info("Connected to metadata database")
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Storage Pool
		pool := storage.NewPool(
			storage.StaticResolver{Config: cfg.Storage},
			time.Duration(cfg.Storage.PoolTTLSeconds)*time.Second,
		)

		// 6. Initialize Result Cache
		results := cache.New(cfg.Cache.MaxEntries)

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(drive.NewFeature(pool, db, results, logg, drive.Options{
			ListTTL:   time.Duration(cfg.Cache.ListTTLSeconds) * time.Second,
			SearchTTL: time.Duration(cfg.Cache.SearchTTLSeconds) * time.Second,
		}))

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

		// Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
