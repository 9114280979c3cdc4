// Package approve implements promotion of current shots to the baseline.
package approve

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
)

// Input is the input of the approve stage.
type Input struct {
	CurrentDir string
	BaseDir    string
	Names      []string // Case name prefixes; empty approves every shot
}

// Stage copies current shots over their baselines.
type Stage struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates a new approve stage.
func New(fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		fs:     fs,
		logger: logger.WithComponent("approve"),
	}
}

// Select returns the shots among files that should be approved: PNG files
// that are not diff artifacts and, when names are given, whose base name
// starts with one of them.
func Select(files []string, names []string) []string {
	selected := []string{}
	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f), pipeline.ShotExt) || pipeline.IsDiffPath(f) {
			continue
		}
		if len(names) > 0 && !hasPrefix(filepath.Base(f), names) {
			continue
		}
		selected = append(selected, f)
	}
	return selected
}

func hasPrefix(base string, names []string) bool {
	for _, n := range names {
		if strings.HasPrefix(base, n) {
			return true
		}
	}
	return false
}

// Execute copies the selected shots concurrently to the same relative path
// under BaseDir. Copies are independent: a failed copy does not undo the
// others. When any copy fails the returned Approval lists it in Failed and
// the error is a *pipeline.ApprovalError.
func (s *Stage) Execute(ctx context.Context, input Input) (pipeline.Approval, error) {
	files, err := s.fs.ListFiles(input.CurrentDir)
	if err != nil {
		return pipeline.Approval{}, fmt.Errorf("list %s: %w", input.CurrentDir, err)
	}

	shots := Select(files, input.Names)
	if len(shots) == 0 {
		s.logger.Warn("No shots matched for approval")
		return pipeline.Approval{Success: true, Filepaths: []string{}}, nil
	}

	errs := make([]error, len(shots))
	var wg sync.WaitGroup
	for i, src := range shots {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			dst := pipeline.CounterpartPath(src, input.CurrentDir, input.BaseDir)
			errs[i] = s.fs.Copy(src, dst)
		}()
	}
	wg.Wait()

	approval := pipeline.Approval{Success: true, Filepaths: []string{}}
	for i, src := range shots {
		if errs[i] != nil {
			s.logger.Error("Failed to approve %s: %s", src, errs[i])
			approval.Failed = append(approval.Failed, src)
			continue
		}
		s.logger.Debug("%s approved", src)
		approval.Filepaths = append(approval.Filepaths, src)
	}

	if len(approval.Failed) > 0 {
		approval.Success = false
		return approval, &pipeline.ApprovalError{Failed: approval.Failed}
	}
	return approval, nil
}
