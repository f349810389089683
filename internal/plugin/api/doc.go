// Package api exposes the buffer, the cursor and the QuickLog actions to
// Lua scripts.
//
// Modules register themselves as _ks_<name> globals; InjectAll folds them
// into the preloaded "ks" module:
//
//	local ks = require("ks")
//	local sel = ks.cursor.selection()
//	ks.quicklog.insert("user")
//	print(#ks.quicklog.scan())
//
// Lines are 1-based and offsets are 0-based byte offsets.
package api
