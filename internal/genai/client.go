// Package genai defines the interface to the remote image-generation
// service and its HTTP implementation. The service performs the actual
// compositing, background removal and inpainting; the core only prepares
// inputs and consumes results.
package genai

import (
	"context"

	"scene-studio/internal/image"
	"scene-studio/pkg/geometry"
)

// CompositeRequest asks the service to blend a product into a scene at the
// confirmed placement.
type CompositeRequest struct {
	Product      *image.Buffer
	ProductLabel string
	Scene        *image.Buffer
	SceneLabel   string
	Position     geometry.Point2D // percent, origin top-left of the scene
	Scale        float64
}

// CompositeResult is the service's answer: the final image plus optional
// diagnostics describing how the service arrived at it.
type CompositeResult struct {
	Image       *image.Buffer
	DebugImage  *image.Buffer
	DebugPrompt string
}

// Generator is the remote generation service as seen by the core. All calls
// are blocking and fallible; the session controller runs them off the
// interactive path. Calls run to completion or failure - mid-flight
// cancellation beyond the context deadline is not supported.
type Generator interface {
	CompositeScene(ctx context.Context, req CompositeRequest) (*CompositeResult, error)
	RemoveBackground(ctx context.Context, product *image.Buffer) (*image.Buffer, error)
	RemoveBackgroundWithMask(ctx context.Context, product, mask *image.Buffer) (*image.Buffer, error)
	Inpaint(ctx context.Context, scene, mask *image.Buffer) (*image.Buffer, error)
}
