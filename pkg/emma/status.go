package emma

import (
	"fmt"

	"github.com/myemma/emma-go/pkg/emma/errors"
)

// Status is the delivery status of a member. The zero value means that the
// status has not been resolved from the wire yet.
type Status int

const (
	StatusUnset Status = iota
	StatusActive
	StatusError
	StatusForwarded
	StatusOptOut
)

// StatusFromCode resolves a wire code into a Status. Both the single letter
// code and the long form that member records carry are accepted. Unrecognized
// codes fail with ErrUnknownCode.
func StatusFromCode(code string) (Status, error) {
	switch code {
	case "a", "active":
		return StatusActive, nil
	case "e", "error":
		return StatusError, nil
	case "f", "forwarded":
		return StatusForwarded, nil
	case "o", "opt-out", "optout":
		return StatusOptOut, nil
	}

	return StatusUnset, errors.NewUnknownCodeError(fmt.Sprintf("unknown member status code %q", code))
}

func (s Status) Code() string {
	switch s {
	case StatusActive:
		return "a"
	case StatusError:
		return "e"
	case StatusForwarded:
		return "f"
	case StatusOptOut:
		return "o"
	}

	return ""
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusError:
		return "error"
	case StatusForwarded:
		return "forwarded"
	case StatusOptOut:
		return "opt-out"
	}

	return "unset"
}

// ImportStatus is the outcome of a member import.
type ImportStatus int

const (
	ImportStatusUnset ImportStatus = iota
	ImportStatusOk
	ImportStatusError
)

func ImportStatusFromCode(code string) (ImportStatus, error) {
	switch code {
	case "o", "okay", "ok":
		return ImportStatusOk, nil
	case "e", "error":
		return ImportStatusError, nil
	}

	return ImportStatusUnset, errors.NewUnknownCodeError(fmt.Sprintf("unknown import status code %q", code))
}

func (s ImportStatus) Code() string {
	switch s {
	case ImportStatusOk:
		return "o"
	case ImportStatusError:
		return "e"
	}

	return ""
}

func (s ImportStatus) String() string {
	switch s {
	case ImportStatusOk:
		return "okay"
	case ImportStatusError:
		return "error"
	}

	return "unset"
}

// ImportStyle tells how the rows of an import were reconciled with the
// members that already existed on the account.
type ImportStyle int

const (
	ImportStyleUnset ImportStyle = iota
	ImportStyleAddOnly
	ImportStyleAddAndUpdate
	ImportStyleUpdateOnly
)

func ImportStyleFromCode(code string) (ImportStyle, error) {
	switch code {
	case "add_only":
		return ImportStyleAddOnly, nil
	case "add_and_update":
		return ImportStyleAddAndUpdate, nil
	case "update_only":
		return ImportStyleUpdateOnly, nil
	}

	return ImportStyleUnset, errors.NewUnknownCodeError(fmt.Sprintf("unknown import style code %q", code))
}

func (s ImportStyle) Code() string {
	switch s {
	case ImportStyleAddOnly:
		return "add_only"
	case ImportStyleAddAndUpdate:
		return "add_and_update"
	case ImportStyleUpdateOnly:
		return "update_only"
	}

	return ""
}

func (s ImportStyle) String() string {
	return s.Code()
}
