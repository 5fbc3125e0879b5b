// Package debug provides debug logging for treehouse.
//
// When enabled via the --debug flag or the [log] config section, it writes
// JSON lines about engine calls and controller state to a rotated file.
package debug
