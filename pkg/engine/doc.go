// Package engine is the gateway to the native routing engine.
//
// The engine is a blocking native library. Gateway owns a dedicated worker
// pool so those calls never run on request goroutines, and takes ownership
// of every buffer the engine hands back:
//
//	gw := engine.New(engine.DefaultBinding(), engine.Config{Workers: 4}, nil)
//	if err := gw.Initialize("/etc/naviroute/engine"); err != nil {
//	    return err
//	}
//	if err := gw.Start(ctx); err != nil {
//	    return err
//	}
//	defer gw.Stop()
//
//	result, err := gw.FindPath(ctx, encoded)
//
// The cgo binding is compiled only with the routeengine build tag; other
// builds use Unlinked, which fails every call with StatusUnlinked.
package engine
