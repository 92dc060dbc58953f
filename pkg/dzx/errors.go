package dzx

import "errors"

var (
	ErrCorruptFile      = errors.New("dzx: corrupt container")
	ErrUnknownSchema    = errors.New("dzx: unknown chunk type")
	ErrUnsavableChunk   = errors.New("dzx: tried to save unknown chunk type")
	ErrInvalidLayer     = errors.New("dzx: invalid layer")
	ErrUnregisteredType = errors.New("dzx: no record kind registered for type")
	ErrFieldOverflow    = errors.New("dzx: field value does not fit")
)
