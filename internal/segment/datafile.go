// Package segment implements the on-disk files TinKV's store is built
// from: the append-only data file holding records, and the optional hint
// file that accelerates recovery for a sealed data file.
//
// DataFile and HintFile are narrow, single-purpose types the store
// orchestrates directly, since compaction and recovery both need to hold
// several segments open at once rather than exactly one active segment.
package segment

import (
	"io"
	"os"
	"sync"

	"github.com/iamNilotpal/tinkv/internal/record"
	"github.com/iamNilotpal/tinkv/pkg/errors"
	"github.com/iamNilotpal/tinkv/pkg/ioutil"
	"github.com/iamNilotpal/tinkv/pkg/seginfo"
)

// DataFile is one segment of the append-only record log: either the single
// active file new writes land in, or a sealed, read-only file kept open
// for lookups and compaction.
type DataFile struct {
	ID   uint64
	path string

	mu       sync.Mutex
	file     *os.File
	writer   *ioutil.BufWriterWithOffset // nil when the file is sealed (not writable).
	size     uint64
	writable bool
}

// OpenDataFile opens the data file at path. When writable is true, it is
// additionally opened for appending and its current length is recorded as
// the starting write offset, matching the append-only invariant that a
// writable file's logical size only ever grows from here.
func OpenDataFile(path string, writable bool) (*DataFile, error) {
	id, err := seginfo.ParseID(path)
	if err != nil {
		return nil, err
	}

	flags := os.O_RDONLY
	if writable {
		flags = os.O_CREATE | os.O_RDWR | os.O_APPEND
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, seginfo.DataFileName(id))
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat data file").
			WithSegmentID(id).WithPath(path)
	}

	df := &DataFile{ID: id, path: path, file: file, size: uint64(info.Size()), writable: writable}

	if writable {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			file.Close()
			return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to end of data file").
				WithSegmentID(id).WithPath(path)
		}
		w, err := ioutil.NewBufWriterWithOffset(file)
		if err != nil {
			file.Close()
			return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to initialize data file writer").
				WithSegmentID(id).WithPath(path)
		}
		df.writer = w
	}

	return df, nil
}

// Size returns the data file's current logical length in bytes.
func (d *DataFile) Size() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// Append encodes and writes a record for key/value, flushing the userspace
// buffer before returning. It does not fsync; callers in sync mode must
// call Sync explicitly. Fails with ErrorCodeFileNotWritable if the file is
// sealed.
func (d *DataFile) Append(key, value []byte) (offset uint64, encodedSize uint64, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.writable || d.writer == nil {
		return 0, 0, errors.NewFileNotWritableError(d.path)
	}

	r := record.New(key, value)
	startOffset := d.size

	n, err := record.Encode(d.writer, r)
	if err != nil {
		return 0, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append record").
			WithSegmentID(d.ID).WithPath(d.path).WithOffset(startOffset).WithKey(key)
	}
	if err := d.writer.Flush(); err != nil {
		return 0, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush data file writer").
			WithSegmentID(d.ID).WithPath(d.path).WithOffset(startOffset).WithKey(key)
	}

	d.size += uint64(n)
	return startOffset, uint64(n), nil
}

// Read seeks to offset and decodes exactly one record. It does not
// validate the record's checksum; Store.Get does that, since DataFile has
// no opinion on what a caller does with a corrupt read.
func (d *DataFile) Read(offset uint64) (*record.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.file.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek data file").
			WithSegmentID(d.ID).WithPath(d.path).WithOffset(offset)
	}

	reader, err := ioutil.NewBufReaderWithOffset(d.file)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to initialize data file reader").
			WithSegmentID(d.ID).WithPath(d.path).WithOffset(offset)
	}

	r, err := record.Decode(reader)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeCodec, "failed to decode record").
			WithSegmentID(d.ID).WithPath(d.path).WithOffset(offset)
	}
	return r, nil
}

// Copy transfers exactly size bytes from src at offset into d at d's
// current tail, without decoding or re-encoding. Compaction relies on this
// to preserve a record's on-disk bytes, and therefore its checksum,
// byte-for-byte.
func (d *DataFile) Copy(src *DataFile, offset, size uint64) (newOffset uint64, err error) {
	src.mu.Lock()
	if _, err := src.file.Seek(int64(offset), io.SeekStart); err != nil {
		src.mu.Unlock()
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek source data file").
			WithSegmentID(src.ID).WithPath(src.path).WithOffset(offset)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(src.file, buf); err != nil {
		src.mu.Unlock()
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read source bytes for copy").
			WithSegmentID(src.ID).WithPath(src.path).WithOffset(offset)
	}
	src.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.writable || d.writer == nil {
		return 0, errors.NewFileNotWritableError(d.path)
	}

	startOffset := d.size
	n, err := d.writer.Write(buf)
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write copied bytes").
			WithSegmentID(d.ID).WithPath(d.path).WithOffset(startOffset)
	}
	if err := d.writer.Flush(); err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush after copy").
			WithSegmentID(d.ID).WithPath(d.path).WithOffset(startOffset)
	}

	d.size += uint64(n)
	return startOffset, nil
}

// Iterate calls fn once per (offset, record) pair found by decoding
// sequentially from the start of the file, stopping at EOF, the first
// decode failure, or the first time fn returns false. A decode failure
// partway through is reported to the caller via err rather than silently
// truncating the walk. Decoding goes through a single BufReaderWithOffset
// for the whole walk, so a sealed segment with thousands of records is
// read in a handful of syscalls rather than one per record field, and the
// reader's own Offset() replaces manually accumulating each record's size.
func (d *DataFile) Iterate(fn func(offset uint64, r *record.Record) bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.file.Seek(0, io.SeekStart); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to start for iteration").
			WithSegmentID(d.ID).WithPath(d.path)
	}

	reader, err := ioutil.NewBufReaderWithOffset(d.file)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to initialize data file reader").
			WithSegmentID(d.ID).WithPath(d.path)
	}

	for {
		offset := uint64(reader.Offset())
		r, err := record.Decode(reader)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.NewCorruptionError(d.ID, offset, nil, err)
		}
		if !fn(offset, r) {
			return nil
		}
	}
}

// Sync flushes the userspace buffer and, if the file is writable, asks the
// OS to persist its data and metadata.
func (d *DataFile) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.writer != nil {
		if err := d.writer.Flush(); err != nil {
			return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush data file writer").
				WithSegmentID(d.ID).WithPath(d.path)
		}
	}
	if !d.writable {
		return nil
	}
	if err := d.file.Sync(); err != nil {
		return errors.ClassifySyncError(err, seginfo.DataFileName(d.ID), d.path, d.size)
	}
	return nil
}

// Close flushes and syncs the file (best-effort), then closes the
// underlying handle. If the file is still writable and ended up empty, it
// is unlinked rather than left behind as a zero-byte segment — an active
// file that never received a write, for instance, does not survive as a
// phantom empty data file. A sealed file is never unlinked here.
func (d *DataFile) Close() error {
	d.mu.Lock()
	size := d.size
	writable := d.writable
	path := d.path

	if d.writer != nil {
		_ = d.writer.Flush()
	}
	if writable {
		_ = d.file.Sync()
	}
	err := d.file.Close()
	d.mu.Unlock()

	if writable && size == 0 {
		_ = os.Remove(path)
	}
	return err
}

// Seal flushes and fsyncs the writable handle, closes it, and reopens the
// file read-only, transitioning the file from active to sealed without
// ever holding two writable handles on the same path at once.
func (d *DataFile) Seal() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.writable {
		return nil
	}

	if d.writer != nil {
		if err := d.writer.Flush(); err != nil {
			return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush before sealing").
				WithSegmentID(d.ID).WithPath(d.path)
		}
	}
	if err := d.file.Sync(); err != nil {
		return errors.ClassifySyncError(err, seginfo.DataFileName(d.ID), d.path, d.size)
	}
	if err := d.file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close file before sealing").
			WithSegmentID(d.ID).WithPath(d.path)
	}

	file, err := os.OpenFile(d.path, os.O_RDONLY, 0644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, d.path, seginfo.DataFileName(d.ID))
	}

	d.file = file
	d.writer = nil
	d.writable = false
	return nil
}
