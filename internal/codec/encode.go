package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

// Save serializes chain to w in a single pass. It takes exclusive ownership
// of w for the duration of the call and does not flush or close it — that is
// the caller's responsibility. Any write failure aborts immediately; the
// caller is responsible for removing a partially written file.
func Save(w io.Writer, chain *markov.Chain) error {
	order := chain.Order()
	if order < 1 || order > markov.MaxOrder {
		return fmt.Errorf("codec: save: %w: %d", ErrUnsupportedOrder, order)
	}

	bw := &byteWriter{w: w}

	bw.write(Magic[:])
	bw.writeU16(Version)
	bw.writeU8(uint8(order))
	bw.writeU8(0) // reserved

	meta := chain.Metadata()
	bw.writeU32(uint32(len(meta)))
	bw.write(meta)

	tokens := chain.Symbols().Tokens()
	bw.writeU32(uint32(len(tokens)))
	for _, tok := range tokens {
		bw.writeU32(uint32(len(tok)))
		bw.write([]byte(tok))
	}

	bw.writeU32(uint32(chain.Graph().NodeCount()))
	var saveErr error
	chain.Graph().ForEachNode(func(key markov.Key, edges []markov.Edge) {
		if saveErr != nil || bw.err != nil {
			return
		}
		for i := 0; i < order; i++ {
			bw.writeU32(key.Slot(i))
		}
		bw.writeU32(uint32(len(edges)))
		for _, e := range edges {
			bw.writeU32(e.Successor)
			bw.writeU32(e.Count)
		}
	})
	if saveErr != nil {
		return saveErr
	}
	return bw.err
}

// byteWriter accumulates the first error encountered so call sites can chain
// writes without checking err after every field.
type byteWriter struct {
	w   io.Writer
	err error
}

func (bw *byteWriter) write(p []byte) {
	if bw.err != nil || len(p) == 0 {
		return
	}
	_, bw.err = bw.w.Write(p)
}

func (bw *byteWriter) writeU8(v uint8) {
	bw.write([]byte{v})
}

func (bw *byteWriter) writeU16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	bw.write(buf[:])
}

func (bw *byteWriter) writeU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	bw.write(buf[:])
}
