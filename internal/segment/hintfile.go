package segment

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	natefinchatomic "github.com/natefinch/atomic"

	"github.com/iamNilotpal/tinkv/internal/record"
	"github.com/iamNilotpal/tinkv/pkg/errors"
	"github.com/iamNilotpal/tinkv/pkg/ioutil"
	"github.com/iamNilotpal/tinkv/pkg/seginfo"
)

// HintFile is the sidecar index for one sealed data file: a compact
// (key, offset, size) record per live key at the time the hint was
// written, letting recovery skip a full scan of the data file it
// describes.
//
// A HintFile is built entirely in memory while compaction fills its data
// file and finalized with one atomic write, so
// a crash mid-write never leaves a partially-written hint file for
// recovery to trip over.
type HintFile struct {
	id      uint64
	dir     string
	buf     bytes.Buffer
	entries int
}

// NewHintFile creates a HintFile buffering writes for the data file with
// the given segment id, to eventually be finalized at
// dataDir/<id>.tinkv.hint. Nothing touches disk until Finalize.
func NewHintFile(dataDir string, id uint64) *HintFile {
	return &HintFile{id: id, dir: dataDir}
}

// Append buffers one hint record. The entries counter this increments
// determines whether Finalize writes anything at all.
func (h *HintFile) Append(key []byte, offset, size uint64) error {
	if _, err := record.EncodeHint(&h.buf, &record.Hint{Key: key, Offset: offset, Size: size}); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to buffer hint record").
			WithSegmentID(h.id).WithKey(key)
	}
	h.entries++
	return nil
}

// Finalize atomically writes the buffered hint records to
// dataDir/<id>.tinkv.hint. If no entries were ever appended, no file is
// written at all — an empty hint file would mislead recovery into
// believing a data file holds zero live keys.
func (h *HintFile) Finalize() error {
	if h.entries == 0 {
		return nil
	}

	path := filepath.Join(h.dir, seginfo.HintFileName(h.id))
	if err := natefinchatomic.WriteFile(path, bytes.NewReader(h.buf.Bytes())); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to finalize hint file").
			WithSegmentID(h.id).WithPath(path)
	}
	return nil
}

// IterateHintFile opens the hint file at path and calls fn once per decoded
// record, stopping at EOF, the first decode failure, or the first time fn
// returns false.
func IterateHintFile(path string, fn func(h *record.Hint) bool) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open hint file").WithPath(path)
	}
	defer file.Close()

	reader, err := ioutil.NewBufReaderWithOffset(file)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to initialize hint file reader").WithPath(path)
	}

	for {
		h, err := record.DecodeHint(reader)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.NewStorageError(err, errors.ErrorCodeCodec, "failed to decode hint record").WithPath(path)
		}
		if !fn(h) {
			return nil
		}
	}
}
