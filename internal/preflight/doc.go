// Package preflight runs the checks a composition needs before any decoding
// starts: external binaries resolvable, clip sources readable, and the output
// directory writable. Each check returns a Result so the CLI can render them
// as a table.
package preflight
