package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/shape-analyzer-mcp/internal/logging"
)

// BuildInfo carries the values injected by ldflags at build time.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app holds state shared by every subcommand. The logger is built once the
// persistent flags are parsed.
type app struct {
	info     BuildInfo
	logLevel string
	logger   *zap.SugaredLogger
}

// Execute runs the command line until it finishes or the process receives
// SIGINT or SIGTERM.
func Execute(info BuildInfo) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	return NewRootCommand(info).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Without a subcommand the binary
// runs the MCP server on stdio, which is how MCP clients launch it.
func NewRootCommand(info BuildInfo) *cobra.Command {
	if info.Version == "" {
		info.Version = "dev"
	}
	a := &app{info: info, logger: logging.Nop()}

	rootCmd := &cobra.Command{
		Use:   "shape-analyzer-mcp",
		Short: "Detect and measure simple geometric shapes in images",
		Long: `shape-analyzer-mcp finds triangles, squares, rectangles, pentagons and circles
in raster images and reports their area, perimeter and centroid.

Run without a subcommand to serve the MCP protocol over stdin/stdout.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.ResolveLevel(a.logLevel), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("shape-analyzer-mcp %s\n  Build time: %s\n  Git commit: %s\n",
		info.Version, info.BuildTime, info.GitCommit))
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		fmt.Sprintf("debug, info, warn or error (default $%s or %s)", logging.EnvLogLevel, logging.DefaultLevel))

	rootCmd.AddCommand(
		createServeCommand(a),
		createDetectCommand(a),
		createBatchCommand(a),
		createSamplesCommand(a),
	)
	return rootCmd
}
