// Package web embeds the built card frontend.
package web

import "embed"

//go:embed dist
var DistFS embed.FS
