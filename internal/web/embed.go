// ABOUTME: Embeds HTML templates and connect docs into the binary
// ABOUTME: Provides templateFS and docsFS for rendering at runtime

package web

import "embed"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed docs/*.md
var docsFS embed.FS
