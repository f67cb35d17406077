package main

import (
	"go.uber.org/zap"

	"github.com/richhaase/buildwatch/internal/config"
)

// BuildOpts holds all resolved configuration and runtime flags needed to
// execute a build. It bundles config.ResolvedConfig (from flag/env/file
// resolution) with CLI-only settings that don't participate in config resolution.
type BuildOpts struct {
	config.ResolvedConfig

	// Display filters, config values first
	ExcludePatterns []string
	ExcludeFiles    []string

	// DebugLog receives internal debug logs; nil means none.
	DebugLog *zap.Logger
}
