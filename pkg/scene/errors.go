package scene

import "errors"

var (
	// ErrDuplicateBrush indicates a brush name is already taken.
	ErrDuplicateBrush = errors.New("scene: duplicate brush name")
	// ErrMissingNode indicates a reference to a node that does not exist.
	ErrMissingNode = errors.New("scene: missing node")
	// ErrEmptyNode indicates a transform or boolean node without children.
	ErrEmptyNode = errors.New("scene: node has no children")
	// ErrInvalidRange indicates a brush draw range with a negative bound.
	ErrInvalidRange = errors.New("scene: invalid brush range")
)
