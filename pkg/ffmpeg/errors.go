package ffmpeg

import (
	"fmt"
	"strings"
)

type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("unable to find the ffmpeg binary: %v", e.Err)
}

type ErrDecode struct {
	Path   string
	Err    error
	Output string
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("unable to decode '%s': %v%s", e.Path, e.Err, formatOutput(e.Output))
}

type ErrCut struct {
	Path   string
	Err    error
	Output string
}

func (e ErrCut) Error() string {
	return fmt.Sprintf("unable to trim '%s': %v%s", e.Path, e.Err, formatOutput(e.Output))
}

func formatOutput(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return ""
	}
	return fmt.Sprintf("; ffmpeg output: %s", output)
}
