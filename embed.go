package gallerydesk

import "embed"

// EmbeddedAssets contains the static assets served under /public/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
