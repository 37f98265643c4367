package topology

import "errors"

var (
	// ErrInvalidGeometry indicates the mesh has no usable buffers or the
	// requested draw range is malformed.
	ErrInvalidGeometry = errors.New("topology: invalid geometry")
	// ErrIndexOutOfRange indicates an index buffer entry that references a
	// missing vertex, or a query outside the last rebuilt triangle range.
	ErrIndexOutOfRange = errors.New("topology: index out of range")
)
