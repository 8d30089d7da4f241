package savecodec

import (
	"encoding/hex"
	"errors"
	"log/slog"
)

func hexstr(b []byte) string {
	if b == nil {
		return "<nil>"
	}
	if len(b) == 0 {
		return "<empty>"
	}
	return hex.EncodeToString(b)
}

func HexAttr(key string, b []byte) slog.Attr {
	return slog.String(key, hexstr(b))
}

// ErrorAttrs describes where a decode failed, for logging: the offset, the
// field path and up to 16 bytes starting at the offset. It returns nil if
// err carries no DataError.
func ErrorAttrs(err error) []slog.Attr {
	var de *DataError
	if !errors.As(err, &de) {
		return nil
	}
	end := min(len(de.Data), de.Off+16)
	var at []byte
	if de.Off <= end {
		at = de.Data[de.Off:end]
	}
	return []slog.Attr{
		slog.Int("off", de.Off),
		slog.String("path", de.Path),
		HexAttr("at", at),
	}
}
