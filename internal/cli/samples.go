package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/shape-analyzer-mcp/internal/samples"
)

func createSamplesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "samples [dir]",
		Short: "Write the synthetic sample images",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "sample_images"
			if len(args) == 1 {
				dir = args[0]
			}
			paths, err := samples.WriteAll(dir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			a.logger.Infow("samples written", "dir", dir, "count", len(paths))
			return nil
		},
	}
}
