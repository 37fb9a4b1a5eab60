package moderation

import "embed"

// CensoredFS ships the default dictionaries with the binary.
//
//go:embed censored
var CensoredFS embed.FS
