// Package record implements the on-disk binary encoding shared by TinKV's
// data files and hint files: a little-endian, length-prefixed layout that
// can be decoded sequentially from any valid record boundary without a
// separate index.
package record

import (
	"bytes"
	"encoding/binary"
	stdErrors "errors"
	"hash/crc32"
	"io"
)

// Tombstone is the reserved value written in place of a key's real value
// when it is removed. Its presence in a decoded record's Value is what
// tells recovery and Get that the key is logically deleted.
var Tombstone = []byte("%TINKV_REMOVE_TOMESTOME%")

// ErrMalformed indicates a record could not be decoded at all: a length
// prefix with no corresponding bytes behind it, or a stream that ends
// mid-record. It never indicates a checksum mismatch, since checksum
// validation is the caller's responsibility, not the codec's.
var ErrMalformed = stdErrors.New("record: malformed or truncated encoding")

// headerSize is the number of bytes occupied by the two length prefixes
// and the trailing checksum, not counting the key and value payloads.
const headerSize = 8 + 8 + 4

// Record is a single data-file entry: a key, a value (or Tombstone, for a
// deleted key), and the CRC-32/IEEE checksum computed over Value alone.
type Record struct {
	Key      []byte
	Value    []byte
	Checksum uint32
}

// New builds a Record for key/value, computing the checksum over value.
func New(key, value []byte) *Record {
	return &Record{Key: key, Value: value, Checksum: crc32.ChecksumIEEE(value)}
}

// NewTombstone builds the tombstone Record written by Remove.
func NewTombstone(key []byte) *Record {
	return New(key, Tombstone)
}

// IsTombstone reports whether value is the reserved deletion marker.
func IsTombstone(value []byte) bool {
	return bytes.Equal(value, Tombstone)
}

// EncodedSize returns the number of bytes Encode will write for a record
// with the given key and value, without performing any I/O. Callers use
// this to size buffers and to predict a record's ending offset before it
// is written.
func EncodedSize(key, value []byte) uint64 {
	return uint64(headerSize + len(key) + len(value))
}

// Size returns the number of bytes this record occupies on disk once
// encoded.
func (r *Record) Size() uint64 {
	return EncodedSize(r.Key, r.Value)
}

// VerifyChecksum reports whether r.Checksum matches the CRC-32/IEEE of
// r.Value, the validation Get performs on every read and recovery performs
// while rebuilding the keydir.
func (r *Record) VerifyChecksum() bool {
	return r.Checksum == crc32.ChecksumIEEE(r.Value)
}

// Encode writes r to w as:
//
//	u64 key_len | key | u64 value_len | value | u32 checksum   (little-endian)
//
// and returns the number of bytes written.
func Encode(w io.Writer, r *Record) (int64, error) {
	buf := make([]byte, headerSize+len(r.Key)+len(r.Value))

	off := 0
	binary.LittleEndian.PutUint64(buf[off:], uint64(len(r.Key)))
	off += 8
	off += copy(buf[off:], r.Key)

	binary.LittleEndian.PutUint64(buf[off:], uint64(len(r.Value)))
	off += 8
	off += copy(buf[off:], r.Value)

	binary.LittleEndian.PutUint32(buf[off:], r.Checksum)
	off += 4

	n, err := w.Write(buf[:off])
	return int64(n), err
}

// Decode reads one record from r starting at its current position. A
// truncated stream, whether it ends inside a length prefix, a key, a
// value, or the trailing checksum, is reported as ErrMalformed; a clean
// end-of-stream before any bytes of the next record are read is reported
// as io.EOF so callers can distinguish "no more records" from "corrupt
// record".
func Decode(r io.Reader) (*Record, error) {
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

	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, ErrMalformed
	}
	valueLen := binary.LittleEndian.Uint64(lenBuf[:])

	value := make([]byte, valueLen)
	if _, err := io.ReadFull(r, value); err != nil {
		return nil, ErrMalformed
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return nil, ErrMalformed
	}

	return &Record{
		Key:      key,
		Value:    value,
		Checksum: binary.LittleEndian.Uint32(crcBuf[:]),
	}, nil
}
