// Package codec implements the binary chain file format and the
// order-agnostic polymorphic loader used to read and write trained chains.
//
// Layout, all fields little-endian, no padding:
//
//	offset  field               type
//	0       magic               [4]byte
//	4       format version      uint16
//	6       order N             uint8
//	7       reserved            uint8
//	8       metadata length     uint32
//	12      metadata            []byte
//	...     symbol table count  uint32
//	...     symbols             repeated {uint32 length, []byte}
//	...     node count          uint32
//	...     nodes               repeated {N x uint32 key slots, uint32 edge
//	                             count E, E x {uint32 successor, uint32 count}}
package codec

// Magic is the fixed 4-byte tag identifying the format.
var Magic = [4]byte{'S', 'C', 'S', '1'}

// Version is the current format version.
const Version uint16 = 1
