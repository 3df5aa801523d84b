package boundary

import (
	"fmt"
	"time"
)

type ErrDetect struct {
	Err error
}

func (e ErrDetect) Error() string {
	return fmt.Sprintf("unable to detect speech segments: %v", e.Err)
}

func (e ErrDetect) Unwrap() error {
	return e.Err
}

type ErrUnknownMode struct {
	Mode Mode
}

func (e ErrUnknownMode) Error() string {
	return fmt.Sprintf("unknown boundary search mode: %d", int(e.Mode))
}

type ErrInvalidChunkDuration struct {
	ChunkDuration time.Duration
}

func (e ErrInvalidChunkDuration) Error() string {
	return fmt.Sprintf("invalid chunk duration: %v", e.ChunkDuration)
}
