// Package config loads, normalizes, and validates videogrid configuration.
//
// Configuration lives in TOML (default ~/.config/videogrid/config.toml, then
// ./videogrid.toml) and describes the ordered clip list, the output file and
// encoder, label geometry, duration policy, external binaries, and logging.
// Load applies defaults, expands paths, resolves relative clip sources against
// the config file's directory, and validates the result before returning it.
package config
