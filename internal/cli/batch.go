package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/shape-analyzer-mcp/internal/batch"
	"github.com/ironsheep/shape-analyzer-mcp/internal/detection"
)

func createBatchCommand(a *app) *cobra.Command {
	cfg := batch.Config{Options: detection.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Detect shapes in every PNG/JPEG of a directory and write annotated copies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := batch.NewRunner(cfg, a.logger).Run(cmd.Context(), args[0])
			for _, rep := range reports {
				if rep.Err != nil {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %d objects detected\n", filepath.Base(rep.Path), len(rep.Shapes))
			}
			return err
		},
	}

	fs := cmd.Flags()
	addDetectionFlags(fs, &cfg.Options)
	fs.StringVarP(&cfg.OutDir, "out", "o", "", "output directory (default <dir>/"+batch.DefaultOutSubdir+")")
	fs.IntVarP(&cfg.Workers, "workers", "w", 0, "images processed in parallel (default GOMAXPROCS)")
	return cmd
}
