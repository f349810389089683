// Package engine provides the text engine that hosts log insertion.
//
// The engine is built on three sub-packages:
//
//   - buffer: line-indexed text storage with offset/point conversion
//   - cursor: selections and multi-caret sets
//   - history: command-based undo/redo with grouped transactions
//
// # Thread Safety
//
// All Engine operations are safe for concurrent use. Reads share a lock;
// writes are serialized.
//
// # Transactions
//
// Transaction groups every edit made inside the callback into one undo
// entry. If the callback fails, the edits are undone before Transaction
// returns, so callers observe either the complete change or none of it:
//
//	err := e.Transaction("Delete logs", func() error {
//	    for _, line := range lines {
//	        if err := e.Delete(start(line), end(line)); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
package engine
