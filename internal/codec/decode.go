package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

// Load reads a chain from r. It takes exclusive ownership of r for the
// duration of the call. See Handle / LoadAny for the order-agnostic entry
// point used by callers that don't know N ahead of time.
func Load(r io.Reader) (*markov.Chain, error) {
	br := &byteReader{r: r}

	var magic [4]byte
	br.read(magic[:])
	if br.err != nil {
		return nil, fmt.Errorf("codec: load: read magic: %w", asTruncated(br.err))
	}
	if magic != Magic {
		return nil, ErrBadMagic
	}

	version := br.readU16()
	if br.err != nil {
		return nil, fmt.Errorf("codec: load: read version: %w", asTruncated(br.err))
	}
	if version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, version, Version)
	}

	order := int(br.readU8())
	_ = br.readU8() // reserved
	if br.err != nil {
		return nil, fmt.Errorf("codec: load: read header: %w", asTruncated(br.err))
	}
	if order < 1 || order > markov.MaxOrder {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedOrder, order)
	}

	metaLen := br.readU32()
	if br.err != nil {
		return nil, fmt.Errorf("codec: load: read metadata length: %w", asTruncated(br.err))
	}
	meta := make([]byte, metaLen)
	br.read(meta)
	if br.err != nil {
		return nil, fmt.Errorf("codec: load: read metadata: %w", asTruncated(br.err))
	}

	symbolCount := br.readU32()
	if br.err != nil {
		return nil, fmt.Errorf("codec: load: read symbol count: %w", asTruncated(br.err))
	}

	symbols := markov.NewSymbolTable()
	for i := uint32(0); i < symbolCount; i++ {
		strLen := br.readU32()
		if br.err != nil {
			return nil, fmt.Errorf("codec: load: read symbol %d length: %w", i, asTruncated(br.err))
		}
		buf := make([]byte, strLen)
		br.read(buf)
		if br.err != nil {
			return nil, fmt.Errorf("codec: load: read symbol %d: %w", i, asTruncated(br.err))
		}
		tok := string(buf)
		if _, exists := symbols.Lookup(tok); exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSymbol, tok)
		}
		symbols.Intern(tok)
	}

	nodeCount := br.readU32()
	if br.err != nil {
		return nil, fmt.Errorf("codec: load: read node count: %w", asTruncated(br.err))
	}

	maxID := uint32(symbols.Len())
	graph := markov.NewGraph()
	seen := make(map[markov.Key]bool, nodeCount)

	validID := func(id uint32) bool {
		return id == markov.Boundary || id <= maxID
	}

	for i := uint32(0); i < nodeCount; i++ {
		var key markov.Key
		slots := make([]uint32, order)
		for s := 0; s < order; s++ {
			slots[s] = br.readU32()
		}
		if br.err != nil {
			return nil, fmt.Errorf("codec: load: read node %d key: %w", i, asTruncated(br.err))
		}
		for _, id := range slots {
			if !validID(id) {
				return nil, fmt.Errorf("%w: key slot %d in node %d", ErrDanglingSymbolID, id, i)
			}
		}
		key = keyFromSlots(slots)
		if seen[key] {
			return nil, fmt.Errorf("%w: node %d", ErrDuplicateKey, i)
		}
		seen[key] = true

		edgeCount := br.readU32()
		if br.err != nil {
			return nil, fmt.Errorf("codec: load: read node %d edge count: %w", i, asTruncated(br.err))
		}
		for e := uint32(0); e < edgeCount; e++ {
			successor := br.readU32()
			count := br.readU32()
			if br.err != nil {
				return nil, fmt.Errorf("codec: load: read node %d edge %d: %w", i, e, asTruncated(br.err))
			}
			if !validID(successor) {
				return nil, fmt.Errorf("%w: successor %d in node %d", ErrDanglingSymbolID, successor, i)
			}
			if count == 0 {
				return nil, fmt.Errorf("%w: node %d successor %d", ErrZeroCount, i, successor)
			}
			for c := uint32(0); c < count; c++ {
				graph.AddEdge(key, successor)
			}
		}
	}

	return markov.FromParts(order, symbols, graph, meta)
}

// keyFromSlots builds a markov.Key from validated slot values by replaying
// Shift over an empty key — this keeps Key's slot layout encapsulated in the
// markov package rather than duplicating it here.
func keyFromSlots(slots []uint32) markov.Key {
	k := markov.EmptyKey()
	order := len(slots)
	for i, id := range slots {
		_ = i
		k = k.Shift(order, id)
	}
	return k
}

func asTruncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}

type byteReader struct {
	r   io.Reader
	err error
}

func (br *byteReader) read(buf []byte) {
	if br.err != nil || len(buf) == 0 {
		return
	}
	_, err := io.ReadFull(br.r, buf)
	if err != nil {
		br.err = err
	}
}

func (br *byteReader) readU8() uint8 {
	var buf [1]byte
	br.read(buf[:])
	return buf[0]
}

func (br *byteReader) readU16() uint16 {
	var buf [2]byte
	br.read(buf[:])
	return binary.LittleEndian.Uint16(buf[:])
}

func (br *byteReader) readU32() uint32 {
	var buf [4]byte
	br.read(buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}
