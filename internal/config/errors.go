package config

import "errors"

// Error taxonomy for resolution failures. Every error raised by the engine
// wraps exactly one of these sentinels, so callers can classify with
// errors.Is while the message text stays human-readable.
var (
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrRangeViolation      = errors.New("value out of range")
	ErrEnumViolation       = errors.New("value not in allowed set")
	ErrStructuralViolation = errors.New("malformed configuration structure")
	ErrUnsupportedSource   = errors.New("unsupported configuration source")
	ErrReservedValue       = errors.New("reserved value")
)

// ErrorKind names the taxonomy class of a resolution error, or returns ""
// for errors outside the taxonomy (I/O failures and the like).
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrRangeViolation):
		return "range_violation"
	case errors.Is(err, ErrEnumViolation):
		return "enum_violation"
	case errors.Is(err, ErrStructuralViolation):
		return "structural_violation"
	case errors.Is(err, ErrUnsupportedSource):
		return "unsupported_source"
	case errors.Is(err, ErrReservedValue):
		return "reserved_value"
	}
	return ""
}
