// Package config provides the configuration for textcore.
//
// Configuration is read from a TOML file and then overridden by
// environment variables:
//
//	┌─────────────────────────────┐
//	│  3. Command Line Flags      │  ← Highest priority (cmd/textcore)
//	├─────────────────────────────┤
//	│  2. Environment Variables   │  ← TEXTCORE_*
//	├─────────────────────────────┤
//	│  1. Config File             │  ← --config or ~/.config/textcore/config.toml
//	├─────────────────────────────┤
//	│  0. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A missing config file is not an error. Unknown keys are.
//
// # Example
//
//	[editor]
//	max_undo_entries = 0
//	index_strategy = "incremental"
//
//	[log]
//	level = "debug"
//	format = "json"
//
//	[autosave]
//	enabled = true
//	interval = "30s"
package config
