// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Preview server, file watch for render, persistent theme
// 0.3.0 - Hover tooltips, mouse hit-testing in the TUI wheel, aspect cycling
// 0.2.0 - SQLite response cache, local aspect detection, aspect table export
// 0.1.0 - Initial release: wheel projector, SVG and terminal renderers, chart client
