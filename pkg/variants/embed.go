package variants

import (
	"embed"
	"io/fs"
)

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// VariantsFS exposes the embedded definition bundle for consumers that want
// to extend or inspect the built-in variants.
func VariantsFS() fs.FS {
	return embeddedDefinitions
}

func definitionsFS() fs.FS {
	return embeddedDefinitions
}
