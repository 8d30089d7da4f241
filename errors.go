package savecodec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnexpectedEOF  = errors.New("unexpected end of file")
	ErrStringEncoding = errors.New("string encoding error")
	ErrInvalidEnum    = errors.New("invalid enum value")
	ErrTrailingData   = errors.New("trailing data after end of save")
)

// DataError describes a decoding failure: what went wrong, where in the
// buffer, and which field was being decoded.
type DataError struct {
	Data []byte
	Off  int
	Path string
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{Data: data, Off: off, Err: err, Msg: fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const window = 16
	var buf strings.Builder
	if e.Path != "" {
		buf.WriteString(e.Path)
		buf.WriteString(": ")
	}
	buf.WriteString(e.Msg)
	if e.Err != nil {
		if e.Msg != "" {
			buf.WriteString(": ")
		}
		buf.WriteString(e.Err.Error())
	}
	n := len(e.Data)
	fmt.Fprintf(&buf, " at 0x%x of %d", e.Off, n)
	if e.Off >= 0 && e.Off < n {
		end := min(n, e.Off+window)
		fmt.Fprintf(&buf, ": %x", e.Data[e.Off:end])
		if end < n {
			buf.WriteString("...")
		}
	}
	return buf.String()
}

// WithField prefixes the path of a *DataError with the given field name.
// Index segments ("[3]") attach without a dot. Other errors are returned
// unchanged.
func WithField(err error, name string) error {
	if err == nil || name == "" {
		return err
	}
	var de *DataError
	if !errors.As(err, &de) {
		return err
	}
	de.Path = joinPath(name, de.Path)
	return err
}

func joinPath(head, tail string) string {
	switch {
	case tail == "":
		return head
	case tail[0] == '[':
		return head + tail
	default:
		return head + "." + tail
	}
}

func indexSegment(i int) string {
	return fmt.Sprintf("[%d]", i)
}
