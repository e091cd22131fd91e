package emma

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	emmaerrors "github.com/myemma/emma-go/pkg/emma/errors"
)

func TestStatusFromCode(t *testing.T) {
	is := is.New(t)

	for code, expected := range map[string]Status{
		"a":       StatusActive,
		"active":  StatusActive,
		"e":       StatusError,
		"f":       StatusForwarded,
		"o":       StatusOptOut,
		"opt-out": StatusOptOut,
	} {
		status, err := StatusFromCode(code)
		is.NoErr(err)
		is.Equal(status, expected)
	}
}

func TestStatusFromUnknownCode(t *testing.T) {
	is := is.New(t)

	_, err := StatusFromCode("zz")
	is.True(errors.Is(err, emmaerrors.ErrUnknownCode))
}

func TestStatusRoundTripsThroughItsCode(t *testing.T) {
	is := is.New(t)

	for _, status := range []Status{StatusActive, StatusError, StatusForwarded, StatusOptOut} {
		resolved, err := StatusFromCode(status.Code())
		is.NoErr(err)
		is.Equal(resolved, status)
	}
}

func TestImportStyleFromCode(t *testing.T) {
	is := is.New(t)

	style, err := ImportStyleFromCode("add_only")
	is.NoErr(err)
	is.Equal(style, ImportStyleAddOnly)

	_, err = ImportStyleFromCode("subtract_only")
	is.True(errors.Is(err, emmaerrors.ErrUnknownCode))
}

func TestImportStatusFromCode(t *testing.T) {
	is := is.New(t)

	status, err := ImportStatusFromCode("e")
	is.NoErr(err)
	is.Equal(status, ImportStatusError)
}
