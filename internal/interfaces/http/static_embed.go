package http

import "embed"

// staticFiles are served under the static URL when it points at the
// application itself.
//
//go:embed static
var staticFiles embed.FS
