package backup

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Meta describes one stored version of a save.
type Meta struct {
	Name   string    `msgpack:"n"`
	Sum    uint64    `msgpack:"h"`
	Size   int64     `msgpack:"s"`
	Stored int64     `msgpack:"c"`
	Time   time.Time `msgpack:"t"`
	Format string    `msgpack:"f,omitempty"`
}

// SumString formats the content hash the way users type it back in.
func (m *Meta) SumString() string {
	return FormatSum(m.Sum)
}

func FormatSum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

func ParseSum(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid checksum %q", s)
	}
	return v, nil
}

func encodeMeta(m *Meta) []byte {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(m)
	msgpack.PutEncoder(enc)
	if err != nil {
		panic(fmt.Errorf("failed to encode backup meta using MsgPack: %w", err))
	}
	return buf.Bytes()
}

func decodeMeta(buf []byte) (*Meta, error) {
	var r bytes.Reader
	r.Reset(buf)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	var m Meta
	err := dec.Decode(&m)
	msgpack.PutDecoder(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode backup meta: %w", err)
	}
	return &m, nil
}

// Version keys sort by time, then by content hash.
const versionKeyLen = 16

func versionKey(t time.Time, sum uint64) []byte {
	k := make([]byte, versionKeyLen)
	binary.BigEndian.PutUint64(k, uint64(t.UnixNano()))
	binary.BigEndian.PutUint64(k[8:], sum)
	return k
}

func blobKey(sum uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, sum)
}

func decodeBlobKey(k []byte) uint64 {
	if len(k) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(k)
}
