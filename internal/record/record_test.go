package record_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/tinkv/internal/record"
)

func TestRecordEncodeDecodeRoundTrip(t *testing.T) {
	r := record.New([]byte("hello"), []byte("world"))

	var buf bytes.Buffer
	n, err := record.Encode(&buf, r)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)
	require.EqualValues(t, r.Size(), n)

	got, err := record.Decode(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(r, got); diff != "" {
		t.Fatalf("decoded record mismatch (-want +got):\n%s", diff)
	}
	require.True(t, got.VerifyChecksum())
}

func TestRecordTombstone(t *testing.T) {
	r := record.NewTombstone([]byte("k"))
	require.True(t, record.IsTombstone(r.Value))

	var buf bytes.Buffer
	_, err := record.Encode(&buf, r)
	require.NoError(t, err)

	got, err := record.Decode(&buf)
	require.NoError(t, err)
	require.True(t, record.IsTombstone(got.Value))
}

func TestRecordChecksumMismatchNotCaughtByDecode(t *testing.T) {
	r := record.New([]byte("k"), []byte("v1"))

	var buf bytes.Buffer
	_, err := record.Encode(&buf, r)
	require.NoError(t, err)

	encoded := buf.Bytes()
	encoded[len(encoded)-5] ^= 0xFF // last value byte, just before the 4-byte checksum.

	got, err := record.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.False(t, got.VerifyChecksum())
}

func TestRecordDecodeEOFOnEmptyStream(t *testing.T) {
	_, err := record.Decode(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestRecordDecodeMalformedOnTruncatedStream(t *testing.T) {
	r := record.New([]byte("key"), []byte("value"))

	var buf bytes.Buffer
	_, err := record.Encode(&buf, r)
	require.NoError(t, err)

	truncated := buf.Bytes()[:buf.Len()-2]
	_, err = record.Decode(bytes.NewReader(truncated))
	require.ErrorIs(t, err, record.ErrMalformed)
}

func TestHintEncodeDecodeRoundTrip(t *testing.T) {
	h := &record.Hint{Key: []byte("k"), Offset: 128, Size: 64}

	var buf bytes.Buffer
	n, err := record.EncodeHint(&buf, h)
	require.NoError(t, err)
	require.EqualValues(t, record.HintEncodedSize(h.Key), n)

	got, err := record.DecodeHint(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(h, got); diff != "" {
		t.Fatalf("decoded hint mismatch (-want +got):\n%s", diff)
	}
}

func TestHintDecodeEOFOnEmptyStream(t *testing.T) {
	_, err := record.DecodeHint(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}
