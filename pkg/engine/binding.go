package engine

// FormatProtobuf is the request format flag passed to the engine: the
// request is an encoded RoutePlanServerParameter.
const FormatProtobuf uint32 = 1

// StatusUnlinked is returned by the Unlinked binding.
const StatusUnlinked int32 = -1

// Binding is the raw foreign-call surface of the routing engine.
//
// Init must succeed (return 0) before FindPath is called. FindPath returns
// the engine status; on 0 both buffers are valid and owned by the caller,
// on any other status no buffers were produced and both are nil.
type Binding interface {
	Init(configPath string) int32
	FindPath(request []byte, format uint32) (status int32, payload, id *OwnedBuffer)
}

// Unlinked is the binding used when the binary is built without the native
// routing library. Every call fails with StatusUnlinked.
type Unlinked struct{}

// Init always fails.
func (Unlinked) Init(string) int32 { return StatusUnlinked }

// FindPath always fails without producing buffers.
func (Unlinked) FindPath([]byte, uint32) (int32, *OwnedBuffer, *OwnedBuffer) {
	return StatusUnlinked, nil, nil
}
