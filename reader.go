package fastimage

import (
	"context"
	"errors"
	"io"
	"sync"
)

var bytePool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 64*1024)
	},
}

func borrowBuffer(size int) []byte {
	if size <= 0 {
		return nil
	}
	buf := bytePool.Get().([]byte)
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	return buf[:size]
}

func releaseBuffer(buf []byte) {
	if buf == nil {
		return
	}
	bytePool.Put(buf[:cap(buf)])
}

// feed reads r chunk by chunk into s, in arrival order, until s reaches a
// terminal state or r is exhausted. It never reads again once s is terminal.
// A body cut short by the peer (io.ErrUnexpectedEOF) ends the input like EOF.
func feed(ctx context.Context, r io.Reader, s *Sniffer, chunkSize int) error {
	chunk := borrowBuffer(chunkSize)
	defer releaseBuffer(chunk)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(chunk)
		if n > 0 && s.Feed(chunk[:n]).Terminal() {
			return nil
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.Close()
			return nil
		}
		if err != nil {
			return err
		}
	}
}
