package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{fmt.Errorf("%w: distDir must be a string", ErrTypeMismatch), "type_mismatch"},
		{fmt.Errorf("%w: too many domains", ErrRangeViolation), "range_violation"},
		{fmt.Errorf("%w: invalid target", ErrEnumViolation), "enum_violation"},
		{fmt.Errorf("%w: basePath", ErrStructuralViolation), "structural_violation"},
		{fmt.Errorf("%w: rename it", ErrUnsupportedSource), "unsupported_source"},
		{fmt.Errorf("%w: distDir", ErrReservedValue), "reserved_value"},
		{errors.New("disk on fire"), ""},
		{nil, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, ErrorKind(tc.err))
	}
}
