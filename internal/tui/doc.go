// Package tui is a single-buffer terminal editor that hosts the QuickLog
// actions. It draws with tcell, colours lines with chroma and drives
// tab-stop sessions through a snippet.Controller.
package tui
