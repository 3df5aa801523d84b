package silero

import (
	"fmt"
)

type ErrNoModel struct{}

func (ErrNoModel) Error() string {
	return "no VAD model path provided"
}

type ErrInitModel struct {
	Path string
	Err  error
}

func (e ErrInitModel) Error() string {
	return fmt.Sprintf("unable to initialize the VAD model '%s': %v", e.Path, e.Err)
}

type ErrDetect struct {
	Err error
}

func (e ErrDetect) Error() string {
	return fmt.Sprintf("unable to detect speech segments: %v", e.Err)
}
