// Package config holds QuickLog's user settings.
//
// Settings are layered, later layers winning:
//
//  1. Defaults
//  2. The settings file (.toml, .yaml/.yml or .json)
//  3. QUICKLOG_* environment variables
//  4. Values set explicitly by the caller (command-line flags)
//
// Store reads and writes the file layer. Watcher reloads it when the file
// changes on disk:
//
//	w, err := config.Watch(store, func(old, cur config.Settings) {
//	    svc.SetOptions(options(cur))
//	})
//	defer w.Close()
package config
