package plot

import (
	"encoding/binary"
	"errors"

	"github.com/andreyvit/savecodec"
)

const (
	// FileMagic is "PLOT" read as a little-endian integer.
	FileMagic = 0x544F4C50

	FileVersion = 1

	FileExt = ".plot"
)

var (
	ErrBadMagic           = errors.New("not a plot file")
	ErrUnsupportedVersion = errors.New("unsupported plot file version")
)

type Notes = savecodec.OrderedMap[savecodec.I32, savecodec.String, *savecodec.I32, *savecodec.String]

// File is a standalone plot table save: magic, version, the table itself
// and free-form notes keyed by plot id.
type File struct {
	Version savecodec.U32 `save:"version"`
	Table   Table         `save:"plots"`
	Notes   Notes         `save:"notes"`
}

func NewFile() *File {
	return &File{Version: FileVersion}
}

func (f *File) DecodeSave(c *savecodec.Cursor) error {
	start := c.Off()
	b, err := c.Peek(4)
	if err != nil {
		return savecodec.WithField(err, "magic")
	}
	if m := binary.LittleEndian.Uint32(b); m != FileMagic {
		return savecodec.WithField(c.Errorf(start, ErrBadMagic, "magic %08x, wanted %08x", m, FileMagic), "magic")
	}
	if _, err := c.Read(4); err != nil {
		return err
	}

	// The body layout depends on the version, so check it before the rest.
	verOff := c.Off()
	b, err = c.Peek(4)
	if err != nil {
		return savecodec.WithField(err, "version")
	}
	if v := binary.LittleEndian.Uint32(b); v == 0 || v > FileVersion {
		return savecodec.WithField(c.Errorf(verOff, ErrUnsupportedVersion, "version %d", v), "version")
	}
	return savecodec.DecodeStruct(c, f)
}

func (f *File) EncodeSave(w *savecodec.Writer) {
	w.AppendUint32(FileMagic)
	savecodec.EncodeStruct(w, f)
}

func (f *File) DrawRaw(ed savecodec.Editor, id string) {
	savecodec.DrawStruct(ed, id, f)
}

// Detect reports whether data starts like a plot file.
func Detect(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == FileMagic
}
