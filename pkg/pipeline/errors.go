package pipeline

import (
	"errors"
	"fmt"
	"image"
)

// ErrorKind classifies why an operation failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindConfiguration
	KindCapture
	KindMissingImage
	KindDimensionMismatch
	KindComparison
	KindServer
	KindApproval
	KindUnknown
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfiguration:
		return "configuration"
	case KindCapture:
		return "capture"
	case KindMissingImage:
		return "missing-image"
	case KindDimensionMismatch:
		return "dimension-mismatch"
	case KindComparison:
		return "comparison"
	case KindServer:
		return "server"
	case KindApproval:
		return "approval"
	default:
		return "unknown"
	}
}

// ErrServerRunning is returned when a static server handle is started twice.
var ErrServerRunning = errors.New("static server already running")

// ConfigurationError reports an invalid or incomplete configuration.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Msg)
}

// ImageRole tells which side of a comparison an image is on.
type ImageRole string

const (
	RoleSource   ImageRole = "source"
	RoleBaseline ImageRole = "baseline"
)

// MissingImageError reports that an image needed for comparison does not exist.
type MissingImageError struct {
	Role ImageRole
	Path string
}

func (e *MissingImageError) Error() string {
	if e.Role == RoleBaseline {
		return fmt.Sprintf("baseline image %s does not exist, make sure to create baseline shots first", e.Path)
	}
	return fmt.Sprintf("source image %s does not exist", e.Path)
}

// DimensionMismatchError reports two images that cannot be compared pixel by pixel.
type DimensionMismatchError struct {
	Source       string
	Baseline     string
	SourceSize   image.Point
	BaselineSize image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("image %s is %dx%d but baseline %s is %dx%d",
		e.Source, e.SourceSize.X, e.SourceSize.Y,
		e.Baseline, e.BaselineSize.X, e.BaselineSize.Y)
}

// CaptureError reports a rendering failure inside one capture task.
type CaptureError struct {
	TaskID string
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.TaskID, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// ComparisonFailure reports that one or more shots differ from their baseline.
// It is never returned by a stage; it only describes a failed Result.
type ComparisonFailure struct {
	Task   string
	Failed int
	Total  int
}

func (e *ComparisonFailure) Error() string {
	return fmt.Sprintf("%s: %d of %d shots failed", e.Task, e.Failed, e.Total)
}

// ServerError reports a static server failure.
type ServerError struct {
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("static server: %v", e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

// ApprovalError reports shots that could not be promoted.
type ApprovalError struct {
	Failed []string
}

func (e *ApprovalError) Error() string {
	return fmt.Sprintf("approve: %d shots could not be copied", len(e.Failed))
}

// KindOf classifies err by walking its chain.
func KindOf(err error) ErrorKind {
	var (
		cfgErr  *ConfigurationError
		missErr *MissingImageError
		dimErr  *DimensionMismatchError
		capErr  *CaptureError
		cmpErr  *ComparisonFailure
		srvErr  *ServerError
		apprErr *ApprovalError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &missErr):
		return KindMissingImage
	case errors.As(err, &dimErr):
		return KindDimensionMismatch
	case errors.As(err, &cmpErr):
		return KindComparison
	case errors.As(err, &srvErr), errors.Is(err, ErrServerRunning):
		return KindServer
	case errors.As(err, &apprErr):
		return KindApproval
	case errors.As(err, &capErr):
		return KindCapture
	default:
		return KindUnknown
	}
}
