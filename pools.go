package savecodec

import "sync"

// Saves are typically a few hundred kilobytes to a few megabytes.
const initialWriterCap = 256 * 1024

// Oversized buffers are dropped instead of being kept alive by the pool.
const maxPooledWriterCap = 16 * 1024 * 1024

var writerPool = &sync.Pool{
	New: func() any {
		return &Writer{Buf: make([]byte, 0, initialWriterCap)}
	},
}

func acquireWriter() *Writer {
	return writerPool.Get().(*Writer)
}

func releaseWriter(w *Writer) {
	if cap(w.Buf) > maxPooledWriterCap {
		return
	}
	w.Buf = w.Buf[:0]
	writerPool.Put(w)
}
