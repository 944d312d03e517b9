// Package magic holds the image transformations the editor hands off to a
// collaborator: background removal and colour inversion.
package magic

import (
	"context"
	"errors"
	"image"
	"strings"

	"go.jetify.com/typeid/v2"
)

// JobPrefix is the typeid prefix of magic job ids.
const JobPrefix = "job"

// ErrUnsupported is returned when a service cannot perform an operation.
var ErrUnsupported = errors.New("magic: operation not supported")

// Operation names a magic tool.
type Operation string

const (
	RemoveBackground Operation = "remove-background"
	InvertColors     Operation = "invert-colors"
)

// Service transforms a whole image. Implementations must not modify the
// input and must honour ctx cancellation.
type Service interface {
	RemoveBackground(ctx context.Context, img image.Image) (image.Image, error)
	InvertColors(ctx context.Context, img image.Image) (image.Image, error)
}

// Run dispatches op to s.
func Run(ctx context.Context, s Service, op Operation, img image.Image) (image.Image, error) {
	switch op {
	case RemoveBackground:
		return s.RemoveBackground(ctx, img)
	case InvertColors:
		return s.InvertColors(ctx, img)
	}
	return nil, ErrUnsupported
}

// NewJobID returns a fresh job id for logging.
func NewJobID() string {
	return typeid.MustGenerate(JobPrefix).String()
}

// New returns the Command service for a non-empty command line and Local
// otherwise.
func New(command string) Service {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Local{}
	}
	return &Command{Path: fields[0], Args: fields[1:]}
}
