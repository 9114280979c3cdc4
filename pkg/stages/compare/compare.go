// Package compare implements the pixel comparison stage.
package compare

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/orisano/pixelmatch"
	"golang.org/x/sync/errgroup"

	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
)

// Highlight drawn around the changed region of a diff artifact.
var (
	highlightColor  = color.NRGBA{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}
	highlightStroke = 3.0
	highlightMargin = 4
)

// Comparator compares two PNG files pixel by pixel.
type Comparator struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	logger   ports.Logger
}

// NewComparator creates a new Comparator.
func NewComparator(fs ports.FileSystem, renderer ports.Renderer, logger ports.Logger) *Comparator {
	return &Comparator{fs: fs, renderer: renderer, logger: logger}
}

// Compare counts the pixels of source that differ from baseline by more
// than threshold. A diff artifact is written next to source only when the
// count is nonzero; a stale one from an earlier run is removed otherwise.
func (c *Comparator) Compare(source, baseline string, threshold float64) (pipeline.Comparison, error) {
	result := pipeline.Comparison{Baseline: baseline, Result: source}

	src, err := c.load(source, pipeline.RoleSource)
	if err != nil {
		return result, err
	}
	base, err := c.load(baseline, pipeline.RoleBaseline)
	if err != nil {
		return result, err
	}

	srcSize, baseSize := src.Bounds().Size(), base.Bounds().Size()
	if srcSize != baseSize {
		return result, &pipeline.DimensionMismatchError{
			Source:       source,
			Baseline:     baseline,
			SourceSize:   srcSize,
			BaselineSize: baseSize,
		}
	}

	var out image.Image
	bad, err := pixelmatch.MatchPixel(src, base,
		pixelmatch.Threshold(threshold),
		pixelmatch.WriteTo(&out))
	if err != nil {
		return result, fmt.Errorf("compare %s: %w", source, err)
	}

	result.BadPixels = bad
	result.Success = bad == 0

	diffPath := pipeline.DiffPath(source)
	if result.Success {
		c.removeStaleDiff(diffPath)
		return result, nil
	}

	if out == nil {
		out = src
	}
	if err := c.writeDiff(diffPath, out); err != nil {
		return result, err
	}
	result.Diff = diffPath
	return result, nil
}

// removeStaleDiff deletes the diff artifact a previous failing run left behind.
func (c *Comparator) removeStaleDiff(path string) {
	exists, err := c.fs.Exists(path)
	if err == nil && exists {
		err = c.fs.Remove(path)
	}
	if err != nil {
		c.logger.Warn("Failed to remove stale diff %s: %s", path, err)
	}
}

func (c *Comparator) load(path string, role pipeline.ImageRole) (*image.NRGBA, error) {
	exists, err := c.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !exists {
		return nil, &pipeline.MissingImageError{Role: role, Path: path}
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, err := c.renderer.DecodePNG(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return c.renderer.ToNRGBA(img), nil
}

// writeDiff draws the pixelmatch output with a box around the changed region.
func (c *Comparator) writeDiff(path string, diff image.Image) error {
	nrgba := c.renderer.ToNRGBA(diff)
	b := nrgba.Bounds()

	canvas := c.renderer.CreateCanvas(b.Dx(), b.Dy(), color.White)
	canvas.DrawImage(nrgba, 0, 0)
	if box, ok := ChangedBounds(nrgba); ok {
		box = box.Inset(-highlightMargin).Intersect(b)
		canvas.DrawRectStroke(box.Min.X, box.Min.Y, box.Dx(), box.Dy(), highlightColor, highlightStroke)
	}

	data, err := c.renderer.EncodePNG(canvas.ToImage())
	if err != nil {
		return fmt.Errorf("encode diff: %w", err)
	}
	if err := c.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	c.logger.Debug("Saved diff to %s", path)
	return nil
}

// ChangedBounds returns the bounding box of the pixels pixelmatch marked
// as different (pure red) in a diff image.
func ChangedBounds(diff *image.NRGBA) (image.Rectangle, bool) {
	b := diff.Bounds()
	box := image.Rectangle{}
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := diff.PixOffset(x, y)
			p := diff.Pix[i : i+4 : i+4]
			if p[0] != 0xFF || p[1] != 0 || p[2] != 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box = px
				found = true
			} else {
				box = box.Union(px)
			}
		}
	}
	return box, found
}

// Input is the input of the compare stage.
type Input struct {
	Tasks  []pipeline.ShotTask
	Config config.Config
}

// Stage compares every captured shot against its baseline.
type Stage struct {
	comparator *Comparator
	logger     ports.Logger
}

// New creates a new compare stage.
func New(fs ports.FileSystem, renderer ports.Renderer, logger ports.Logger) *Stage {
	logger = logger.WithComponent("compare")
	return &Stage{
		comparator: NewComparator(fs, renderer, logger),
		logger:     logger,
	}
}

// Execute compares the tasks concurrently and returns them updated with
// their comparison. Missing images and dimension mismatches fail the whole
// run; pixel differences only mark the task as failed.
func (s *Stage) Execute(ctx context.Context, input Input) ([]pipeline.ShotTask, error) {
	cfg := input.Config
	tasks := make([]pipeline.ShotTask, len(input.Tasks))
	copy(tasks, input.Tasks)

	s.logger.Info("Comparing %d shots", len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	for i := range tasks {
		task := &tasks[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			baseline := pipeline.CounterpartPath(task.Result, cfg.CurrentDir, cfg.BaseDir)
			cmp, err := s.comparator.Compare(task.Result, baseline, cfg.Threshold)
			if err != nil {
				return err
			}
			task.Apply(cmp)

			if cmp.Success {
				s.logger.Debug("%s matches baseline", task.ID)
			} else {
				s.logger.Info("%s differs from baseline by %d pixels", task.ID, cmp.BadPixels)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tasks, nil
}
