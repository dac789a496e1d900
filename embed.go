package suar

import (
	"embed"
	"io/fs"
)

// EmbeddedAssets contains the assets shipped with the binary: the site
// stylesheet and the WebAssembly client loader.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

var embeddedFS = mustSub(EmbeddedAssets, "embedded")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
