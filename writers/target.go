package writers

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/byu-imaal/dns-cookies-pam21/constants"
)

// Target wraps the output resource for one run. Standard output is
// buffered in full and lands only when Close runs, after processing and
// progress reporting are done, so records never interleave with progress
// text. File targets stream incrementally instead, which means an aborted
// run leaves a truncated file rather than rolling back.
type Target struct {
	buf    *bytes.Buffer
	bw     *bufio.Writer
	file   *os.File
	stdout io.Writer
}

// OpenTarget acquires the output resource once, before processing begins.
// An empty path or the literal "stdout" selects standard output.
func OpenTarget(path string) (*Target, error) {
	if path == "" || path == constants.StdoutTarget {
		return &Target{buf: &bytes.Buffer{}, stdout: os.Stdout}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output %q: %s", path, err)
	}
	return &Target{bw: bufio.NewWriter(file), file: file}, nil
}

// Writer is the sink record writers attach to.
func (t *Target) Writer() io.Writer {
	if t.buf != nil {
		return t.buf
	}
	return t.bw
}

// Close releases the resource. It runs once on every exit path; for
// stdout targets this is the moment buffered records appear.
func (t *Target) Close() error {
	if t.buf != nil {
		_, err := io.Copy(t.stdout, t.buf)
		return err
	}
	flushErr := t.bw.Flush()
	closeErr := t.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
