// Package lua runs QuickLog scripts on a sandboxed gopher-lua state.
//
// A State opens only the base, package, table, string and math libraries.
// dofile, loadfile and load are removed, require only resolves the safe
// standard modules and the preloaded ks modules, and print writes to the
// configured output. Every run is bounded by the state's timeout:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "cleanup.lua"); err != nil {
//	    return err
//	}
//
// gopher-lua states are not goroutine-safe. State serializes Go-side calls
// with a mutex; Executor pins all work to one goroutine for hosts that call
// in from several.
//
// # Capabilities
//
// Restricted modules are only injected once the matching capability has
// been granted:
//
//	state.Sandbox().Grant(lua.CapabilityClipboard)
package lua
