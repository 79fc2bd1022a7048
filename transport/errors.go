package transport

import (
	"fmt"

	"igtlink/ierr"
)

// wrapIoErr wraps a raw net.Conn error as ierr.ErrIo, passing nil through
// unchanged.
func wrapIoErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ierr.ErrIo, err)
}
