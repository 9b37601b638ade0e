package runner

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// tailBytes bounds how much of each stdio file is captured into the
// RunContext for alert templating, per §4.5 step 6.
const tailBytes = 4 * 1024

// openAppendCreate implements §4.5 step 1: create parent directories if
// missing, open the file in append-create mode.
func openAppendCreate(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return f, nil
}

// tailOf returns the last tailBytes bytes of a file, read back after the
// child has written to it. A read error is treated as an empty tail: loss
// of tail capture must never fail the run.
func tailOf(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ""
	}

	size := info.Size()
	start := int64(0)
	if size > tailBytes {
		start = size - tailBytes
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return ""
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return ""
	}
	return buf.String()
}
