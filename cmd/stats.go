package cmd

import (
	"context"
	"fmt"

	"drive-manager/feature/drive/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsOwner string

// statsCmd reports true store usage for one owner.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report object count and size per top-level folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		svc, l, err := buildService()
		if err != nil {
			return err
		}

		res := svc.GetStorageStats(ctx, statsOwner)
		if !res.Success {
			return fmt.Errorf("stats failed: %s", res.Message)
		}

		stats, ok := res.Data.(*models.StorageStats)
		if !ok {
			return fmt.Errorf("unexpected stats payload")
		}

		l.Info("Storage usage",
			zap.String("owner", stats.OwnerID),
			zap.Int("total_objects", stats.TotalObjects),
			zap.Int64("total_size", stats.TotalSize),
		)
		for folder, usage := range stats.Folders {
			l.Info("Folder usage",
				zap.String("folder", folder),
				zap.Int("objects", usage.Objects),
				zap.Int64("size", usage.Size),
			)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsOwner, "owner", "", "Owner namespace to measure (required)")
	_ = statsCmd.MarkFlagRequired("owner")

	RootCmd.AddCommand(statsCmd)
}
