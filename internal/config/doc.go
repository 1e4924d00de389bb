// Package config provides the configuration system for meg.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Arguments  │  ← Highest priority (applied by the caller via Set)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← MEG_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/meg/config.toml (or .yaml)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Settings are addressed by dot-separated camelCase paths such as
// "editor.tabWidth". Section accessors (Editor, Keys, UI, Logging) return
// typed snapshots with defaults filled in.
//
// # Sub-packages
//
//   - loader: Configuration file loading (TOML, YAML, environment variables)
package config
