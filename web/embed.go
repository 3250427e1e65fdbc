// Package web holds the frontend's templates and static assets.
package web

import "embed"

// Assets contains the page templates under templates/ and the CSS and JS
// served under static/.
//
//go:embed templates static
var Assets embed.FS
