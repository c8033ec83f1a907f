package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/assets/*
var staticFS embed.FS

// FS returns an http.FileSystem rooted at the embedded assets directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static/assets")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
