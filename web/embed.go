// Package web embeds the widget stylesheet and the demo host page
// served by the embedding server.
package web

import "embed"

//go:embed static/*.css demo.html
var Assets embed.FS
