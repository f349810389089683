// Package plugin runs user Lua scripts against an open buffer.
//
// A Runner owns one sandboxed state with the ks API injected and a single
// executor goroutine, so hosts may call Run from any goroutine.
package plugin
