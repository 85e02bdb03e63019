package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed assets/*
var embeddedAssets embed.FS

const (
	HeaderName        = "header.html"
	RuntimeScriptName = "runtime.js"
)

// AssetsFS exposes the embedded header fragment and runtime script so callers
// can start their own header from the default one.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// DefaultHeader returns the header fragment inlined when the caller supplies
// none.
func DefaultHeader() []byte {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+HeaderName)
	if err != nil {
		return nil
	}
	return data
}

func defaultRuntimeScript() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+RuntimeScriptName)
	if err != nil {
		return ""
	}
	return string(data)
}
