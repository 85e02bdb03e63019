package surveygen

import (
	"io/fs"

	"github.com/goliatone/go-surveygen/pkg/renderers/vanilla"
)

// EmbeddedAssets exposes the default header fragment and the document
// runtime script so callers can start a custom header from the built-in one.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
