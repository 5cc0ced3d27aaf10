// Package batch runs the shape detector over every image in a directory and
// writes the annotated and edge images next to them.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/shape-analyzer-mcp/internal/detection"
	"github.com/ironsheep/shape-analyzer-mcp/internal/imaging"
)

// DefaultOutSubdir is the directory created inside the input directory when
// Config.OutDir is empty.
const DefaultOutSubdir = "annotated"

// Config controls a batch run.
type Config struct {
	// Options are passed unchanged to detection.Detect for every file.
	Options detection.Options

	// OutDir receives <base>_annotated.png and <base>_edges.png for every
	// input. Defaults to <dir>/annotated.
	OutDir string

	// Workers bounds the number of images processed at once. Zero or less
	// uses GOMAXPROCS.
	Workers int
}

// FileReport is the outcome for one input file.
type FileReport struct {
	Path          string                    `json:"path"`
	Shapes        []detection.DetectedShape `json:"shapes"`
	AnnotatedPath string                    `json:"annotated_path,omitempty"`
	EdgesPath     string                    `json:"edges_path,omitempty"`
	Err           error                     `json:"-"`
}

// Runner processes directories of images.
type Runner struct {
	cfg    Config
	logger *zap.SugaredLogger
}

// NewRunner returns a Runner. A nil logger discards all output.
func NewRunner(cfg Config, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run detects shapes in every PNG and JPEG file directly inside dir.
//
// One report is returned per input, in file name order. A file that fails
// does not stop the others: its report carries the error and the returned
// error combines every per-file failure. Cancelling ctx stops files that
// have not started yet.
func (r *Runner) Run(ctx context.Context, dir string) ([]FileReport, error) {
	files, err := ListImages(dir)
	if err != nil {
		return nil, err
	}

	outDir := r.cfg.OutDir
	if outDir == "" {
		outDir = filepath.Join(dir, DefaultOutSubdir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	r.logger.Infow("batch started", "dir", dir, "files", len(files), "out", outDir, "workers", r.cfg.Workers)

	reports := make([]FileReport, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for i, path := range files {
		i, path := i, path
		reports[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				reports[i].Err = err
				return nil
			}
			reports[i] = r.processFile(path, outDir)
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for _, rep := range reports {
		if rep.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", filepath.Base(rep.Path), rep.Err))
		}
	}

	r.logger.Infow("batch finished", "files", len(files), "failed", len(multierr.Errors(errs)))
	return reports, errs
}

func (r *Runner) processFile(path, outDir string) FileReport {
	rep := FileReport{Path: path}

	img, err := imaging.Open(path)
	if err != nil {
		r.logger.Warnw("skipping unreadable image", "file", path, "error", err)
		rep.Err = err
		return rep
	}

	res, err := detection.Detect(img, r.cfg.Options)
	if err != nil {
		rep.Err = err
		return rep
	}
	rep.Shapes = res.Shapes()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rep.AnnotatedPath = filepath.Join(outDir, base+"_annotated.png")
	rep.EdgesPath = filepath.Join(outDir, base+"_edges.png")

	if err := imaging.Save(res.Annotated, rep.AnnotatedPath); err != nil {
		rep.Err = err
		return rep
	}
	if err := imaging.Save(res.Edges, rep.EdgesPath); err != nil {
		rep.Err = err
		return rep
	}

	r.logger.Infof("%s -> %d objects detected", filepath.Base(path), len(rep.Shapes))
	for _, s := range rep.Shapes {
		r.logger.Debugw("shape", "file", filepath.Base(path), "kind", s.Kind.String(),
			"area", s.Area, "perimeter", s.Perimeter, "cx", s.Centroid.X, "cy", s.Centroid.Y)
	}
	return rep
}

// ListImages returns the supported image files directly inside dir, sorted
// by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !imaging.IsSupportedFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
