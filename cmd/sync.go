package cmd

import (
	"context"
	"fmt"
	"time"

	"drive-manager/core/cache"
	"drive-manager/core/config"
	"drive-manager/core/database"
	"drive-manager/core/logger"
	"drive-manager/core/storage"
	"drive-manager/feature/drive"
	"drive-manager/feature/drive/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for sync commands
	syncOwner     string
	checkOnlySync bool
)

// syncCmd is the parent command for reconciliation operations.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the metadata database against the object store",
	Long: `Reconcile one owner's namespace in both directions: verify file records
against the store, push missing folder markers, import unknown objects and
markers, and report orphans.

Examples:
  # Full bidirectional sync
  sync --owner u1

  # Diagnostic check only (no mutations)
  sync --owner u1 --check`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncOwner, "owner", "", "Owner namespace to reconcile (required)")
	syncCmd.Flags().BoolVar(&checkOnlySync, "check", false, "Report only, mutate nothing")
	_ = syncCmd.MarkFlagRequired("owner")

	RootCmd.AddCommand(syncCmd)
}

// buildService wires the drive service for CLI use: config, logger, database
// and storage pool, without the HTTP stack.
func buildService() (*drive.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate drive tables: %w", err)
	}

	pool := storage.NewPool(
		storage.StaticResolver{Config: cfg.Storage},
		time.Duration(cfg.Storage.PoolTTLSeconds)*time.Second,
	)

	svc := drive.NewService(pool, db, cache.New(cfg.Cache.MaxEntries), l, drive.Options{
		ListTTL:   time.Duration(cfg.Cache.ListTTLSeconds) * time.Second,
		SearchTTL: time.Duration(cfg.Cache.SearchTTLSeconds) * time.Second,
	})
	return svc, l, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, l, err := buildService()
	if err != nil {
		return err
	}

	var res *models.OperationResult
	if checkOnlySync {
		l.Info("Starting consistency check", zap.String("owner", syncOwner))
		res = svc.PerformConsistencyCheck(ctx, syncOwner)
	} else {
		l.Info("Starting full sync", zap.String("owner", syncOwner))
		res = svc.PerformFullSync(ctx, syncOwner)
	}

	printSyncReport(l, res)
	if !res.Success {
		return fmt.Errorf("reconciliation finished with errors: %s", res.Message)
	}
	return nil
}

// printSyncReport prints a formatted reconciliation report using logger.
func printSyncReport(l *zap.Logger, res *models.OperationResult) {
	if res.Stats == nil {
		l.Info("Reconciliation report", zap.String("message", res.Message))
		return
	}
	s := res.Stats

	l.Info("Reconciliation report",
		zap.Int("files_verified", s.FilesVerified),
		zap.Int("files_removed", s.FilesRemoved),
		zap.Int("files_imported", s.FilesImported),
		zap.Int("folders_imported", s.FoldersImported),
		zap.Int("folders_created", s.FoldersCreated),
		zap.Int("markers_created", s.MarkersCreated),
		zap.Int("orphans", len(s.OrphanKeys)),
		zap.String("execution_time", s.ExecutionTime),
	)

	// Show a sample of orphans (max 5 for logger)
	maxShow := 5
	if len(s.OrphanKeys) < maxShow {
		maxShow = len(s.OrphanKeys)
	}
	for i := 0; i < maxShow; i++ {
		l.Info("Orphan key", zap.String("key", s.OrphanKeys[i]))
	}
	if len(s.OrphanKeys) > maxShow {
		l.Info("Additional orphans not shown", zap.Int("count", len(s.OrphanKeys)-maxShow))
	}

	for _, e := range s.Errors {
		l.Warn("Reconciliation error", zap.String("detail", e))
	}
}
