// Package web provides the embedded static assets served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree, including the block
// stylesheet the page layout loads after first paint.
//
//go:embed all:static
var StaticFS embed.FS
