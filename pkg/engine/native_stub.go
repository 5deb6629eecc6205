//go:build !cgo || !routeengine

package engine

// DefaultBinding returns Unlinked: this build does not include the native
// routing library. Build with -tags routeengine and cgo enabled to link it.
func DefaultBinding() Binding {
	return Unlinked{}
}
