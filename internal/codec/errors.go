package codec

import "errors"

// Failure taxonomy for the codec. All are sentinel errors compatible with
// errors.Is; decode wraps them with positional context via
// fmt.Errorf("...: %w", ...).
var (
	ErrBadMagic          = errors.New("codec: bad magic")
	ErrUnsupportedVersion = errors.New("codec: unsupported format version")
	ErrUnsupportedOrder  = errors.New("codec: unsupported order")
	ErrTruncated         = errors.New("codec: truncated file")
	ErrDanglingSymbolID  = errors.New("codec: successor or key slot references an unassigned symbol id")
	ErrZeroCount         = errors.New("codec: edge count must be positive")
	ErrDuplicateKey      = errors.New("codec: duplicate key in node stream")
	ErrDuplicateSymbol   = errors.New("codec: duplicate string in symbol table")
)
