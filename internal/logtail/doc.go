// Package logtail reads the tail of the client's log file for the Activity
// view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays bounded
// however large the file grows. Parse splits a line produced by slog's text or
// JSON handler into time, level, message and attributes for column rendering.
package logtail
