package device

import (
	"errors"
	"fmt"
)

// Result codes reported by the bundled services.
const (
	CodeNotFound    uint32 = 0xC8804478
	CodeNoCard      uint32 = 0xC8A04501
	CodeUnavailable uint32 = 0xD8E0806A
)

// ErrRegistryClosed is returned by Registry methods after Close.
var ErrRegistryClosed = errors.New("device registry closed")

// ResultError carries the numeric result code of a failed service call.
type ResultError struct {
	Op   string
	Code uint32
	Err  error
}

func (e *ResultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("device %s failed (0x%08X): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("device %s failed (0x%08X)", e.Op, e.Code)
}

func (e *ResultError) Unwrap() error { return e.Err }

// ResultCode extracts the numeric code from err, if it carries one.
func ResultCode(err error) (uint32, bool) {
	var resultErr *ResultError
	if errors.As(err, &resultErr) {
		return resultErr.Code, true
	}
	return 0, false
}
