package pcm

import (
	"fmt"
)

type ErrRead struct {
	Path string
	Err  error
}

func (e ErrRead) Error() string {
	return fmt.Sprintf("unable to read audio data from '%s': %v", e.Path, e.Err)
}

func (e ErrRead) Unwrap() error {
	return e.Err
}
