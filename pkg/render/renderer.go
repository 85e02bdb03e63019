package render

import (
	"context"

	"github.com/goliatone/go-surveygen/pkg/model"
)

// Renderer converts a Survey into a byte representation (an HTML document
// for the vanilla renderer).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, survey *model.Survey, options RenderOptions) ([]byte, error)
}
