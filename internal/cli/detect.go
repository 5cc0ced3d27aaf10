package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/shape-analyzer-mcp/internal/detection"
	"github.com/ironsheep/shape-analyzer-mcp/internal/imaging"
	"github.com/ironsheep/shape-analyzer-mcp/internal/report"
)

// addDetectionFlags binds the detector tuning flags to opts.
func addDetectionFlags(fs *pflag.FlagSet, opts *detection.Options) {
	fs.IntVar(&opts.LowThreshold, "low", detection.DefaultLowThreshold, "lower edge hysteresis threshold")
	fs.IntVar(&opts.HighThreshold, "high", detection.DefaultHighThreshold, "upper edge hysteresis threshold")
	fs.Float64Var(&opts.MinArea, "min-area", detection.DefaultMinArea, "ignore contours enclosing fewer square pixels")
	fs.Float64Var(&opts.MinCircularity, "min-circularity", 0, "circularity a many-sided outline needs to count as a circle (0 disables)")
}

func createDetectCommand(a *app) *cobra.Command {
	opts := detection.DefaultOptions()
	var (
		format        string
		annotatedPath string
		edgesPath     string
	)

	cmd := &cobra.Command{
		Use:   "detect <image>",
		Short: "Detect shapes in one image and print their metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			img, err := imaging.Open(args[0])
			if err != nil {
				return err
			}
			res, err := detection.Detect(img, opts)
			if err != nil {
				return err
			}
			a.logger.Debugw("detected", "file", args[0], "count", len(res.Detections))

			if annotatedPath != "" {
				if err := imaging.Save(res.Annotated, annotatedPath); err != nil {
					return err
				}
				a.logger.Infow("wrote annotated image", "path", annotatedPath)
			}
			if edgesPath != "" {
				if err := imaging.Save(res.Edges, edgesPath); err != nil {
					return err
				}
				a.logger.Infow("wrote edge map", "path", edgesPath)
			}

			return report.Write(cmd.OutOrStdout(), f, args[0], res.Shapes())
		},
	}

	fs := cmd.Flags()
	addDetectionFlags(fs, &opts)
	fs.StringVarP(&format, "format", "f", string(report.FormatTable), "output format: table, csv or json")
	fs.StringVar(&annotatedPath, "annotated", "", "write the annotated image to this PNG path")
	fs.StringVar(&edgesPath, "edges", "", "write the edge map to this PNG path")
	return cmd
}
