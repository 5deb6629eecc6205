//go:build cgo && routeengine

package engine

/*
#cgo LDFLAGS: -lrout_server
#include <stdlib.h>

int init(const char *path);
int findPath(const unsigned char *condition, unsigned int conditionSize,
             unsigned char **result, unsigned int *size,
             char **id, unsigned int *idSize, unsigned int format);

static int route_init(const char *path) {
	return init(path);
}

static int route_find_path(const unsigned char *req, unsigned int reqLen,
                           unsigned char **result, unsigned int *size,
                           char **id, unsigned int *idSize, unsigned int format) {
	return findPath(req, reqLen, result, size, id, idSize, format);
}
*/
import "C"

import "unsafe"

// Native calls into librout_server through cgo.
type Native struct{}

// DefaultBinding returns the cgo binding.
func DefaultBinding() Binding {
	return Native{}
}

// Init initializes the engine with its configuration directory.
func (Native) Init(configPath string) int32 {
	cpath := C.CString(configPath)
	defer C.free(unsafe.Pointer(cpath))
	return int32(C.route_init(cpath))
}

// FindPath runs one route computation. On success the payload and id
// buffers point at engine-allocated memory released with C.free.
func (Native) FindPath(request []byte, format uint32) (int32, *OwnedBuffer, *OwnedBuffer) {
	var (
		result *C.uchar
		size   C.uint
		id     *C.char
		idSize C.uint
	)

	var req *C.uchar
	if len(request) > 0 {
		req = (*C.uchar)(C.CBytes(request))
		defer C.free(unsafe.Pointer(req))
	}

	status := int32(C.route_find_path(req, C.uint(len(request)), &result, &size, &id, &idSize, C.uint(format)))
	if status != 0 {
		return status, nil, nil
	}

	payload := NewOwnedBuffer(
		unsafe.Slice((*byte)(unsafe.Pointer(result)), int(size)),
		func() { C.free(unsafe.Pointer(result)) },
	)
	routeID := NewOwnedBuffer(
		unsafe.Slice((*byte)(unsafe.Pointer(id)), int(idSize)),
		func() { C.free(unsafe.Pointer(id)) },
	)
	return 0, payload, routeID
}
