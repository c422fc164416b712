// Package web embeds the dashboard's browser page. The page is static; it
// renders the JSON view models served under /v1/dashboard.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// IndexFile is the page served at "/".
const IndexFile = "index.html"

// Assets returns the asset tree rooted at static/.
func Assets() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err) // static/ is embedded at build time
	}
	return sub
}
