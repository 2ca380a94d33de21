package record

import (
	"encoding/binary"
	"io"
)

// hintHeaderSize is the number of fixed-width bytes in an encoded Hint,
// not counting the key.
const hintHeaderSize = 8 + 8 + 8

// Hint is a sidecar index entry written to a HintFile: the key and the
// location and byte length of the corresponding record in the sibling
// data file. Hints carry no checksum; their correctness depends entirely
// on the data file they describe being sealed and byte-immutable.
type Hint struct {
	Key    []byte
	Offset uint64
	Size   uint64
}

// HintEncodedSize returns the number of bytes EncodeHint will write for a hint
// with the given key.
func HintEncodedSize(key []byte) uint64 {
	return uint64(hintHeaderSize + len(key))
}

// EncodeHint writes h to w as:
//
//	u64 key_len | key | u64 offset | u64 size   (little-endian)
func EncodeHint(w io.Writer, h *Hint) (int64, error) {
	buf := make([]byte, hintHeaderSize+len(h.Key))

	off := 0
	binary.LittleEndian.PutUint64(buf[off:], uint64(len(h.Key)))
	off += 8
	off += copy(buf[off:], h.Key)

	binary.LittleEndian.PutUint64(buf[off:], h.Offset)
	off += 8

	binary.LittleEndian.PutUint64(buf[off:], h.Size)
	off += 8

	n, err := w.Write(buf[:off])
	return int64(n), err
}

// DecodeHint reads one hint record from r starting at its current
// position. Like Decode, a clean end-of-stream is reported as io.EOF and
// anything else truncated or malformed is reported as ErrMalformed.
func DecodeHint(r io.Reader) (*Hint, error) {
	var lenBuf [8]byte

	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, ErrMalformed
	}
	keyLen := binary.LittleEndian.Uint64(lenBuf[:])

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, ErrMalformed
	}

	var offBuf [8]byte
	if _, err := io.ReadFull(r, offBuf[:]); err != nil {
		return nil, ErrMalformed
	}

	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, ErrMalformed
	}

	return &Hint{
		Key:    key,
		Offset: binary.LittleEndian.Uint64(offBuf[:]),
		Size:   binary.LittleEndian.Uint64(sizeBuf[:]),
	}, nil
}
