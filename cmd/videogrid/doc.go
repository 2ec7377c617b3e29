// Package main hosts the videogrid CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, runs preflight checks, and
// hands the eight clips to the composition pipeline. It also offers a probe
// command that reports clip metadata without decoding, and configuration
// scaffolding. Keep this package thin: behaviour lives in internal packages.
package main
