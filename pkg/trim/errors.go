package trim

import (
	"fmt"
)

type ErrCreateTemp struct {
	Err error
}

func (e ErrCreateTemp) Error() string {
	return fmt.Sprintf("unable to create a temporary file: %v", e.Err)
}

type ErrReplace struct {
	Path string
	Err  error
}

func (e ErrReplace) Error() string {
	return fmt.Sprintf("unable to replace the original file '%s': %v", e.Path, e.Err)
}
