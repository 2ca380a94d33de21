// Package server implements the Redis-wire-compatible boundary in front of
// the store: a RESP2 listener that decodes client requests, dispatches
// them to a pkg/tinkv.DB, and encodes the replies.
//
// Value is a discriminated struct rather than an interface so Encode can
// switch on a plain Kind field instead of a type switch.
package server

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/iamNilotpal/tinkv/pkg/errors"
)

// ValueKind identifies which RESP2 variant a Value holds.
type ValueKind int

const (
	KindSimpleString ValueKind = iota
	KindError
	KindInteger
	KindBulkString
	KindNullBulkString
	KindArray
	KindNullArray
)

const (
	simpleStrPrefix byte = '+'
	errorPrefix     byte = '-'
	integerPrefix   byte = ':'
	bulkStrPrefix   byte = '$'
	arrayPrefix     byte = '*'
)

var crlf = []byte("\r\n")

// Value is one RESP2 protocol value: Kind selects which fields are
// meaningful (Str, ErrName and ErrMsg, Int, Bulk, Array, or none for the
// null kinds), mirroring the Rust source's Value enum.
type Value struct {
	Kind    ValueKind
	Str     string
	ErrName string
	ErrMsg  string
	Int     int64
	Bulk    []byte
	Array   []Value
}

func SimpleString(s string) Value { return Value{Kind: KindSimpleString, Str: s} }
func Integer(i int64) Value       { return Value{Kind: KindInteger, Int: i} }
func BulkString(b []byte) Value   { return Value{Kind: KindBulkString, Bulk: b} }
func NullBulkString() Value       { return Value{Kind: KindNullBulkString} }
func Array(vs []Value) Value      { return Value{Kind: KindArray, Array: vs} }
func NullArray() Value            { return Value{Kind: KindNullArray} }

// Error builds an error reply. name is the RESP error-kind prefix clients
// key off of (e.g. "ERR", "INTERNALERR"); msg is the human-readable body.
func Error(name, msg string) Value {
	return Value{Kind: KindError, ErrName: name, ErrMsg: msg}
}

// ErrorFromEngine maps an internal engine error onto a RESP error kind:
// a key-not-found or size-limit error still reports "ERR" (a client
// mistake), everything else is "INTERNALERR" (the server's problem).
func ErrorFromEngine(err error) Value {
	if errors.IsKeyNotFound(err) {
		return Error("ERR", err.Error())
	}
	if ke, ok := errors.AsKVError(err); ok && ke.Code() == errors.ErrorCodeSizeLimit {
		return Error("ERR", err.Error())
	}
	return Error("INTERNALERR", err.Error())
}

// Encode writes v to w in RESP2 wire format.
func Encode(w *bufio.Writer, v Value) error {
	switch v.Kind {
	case KindSimpleString:
		w.WriteByte(simpleStrPrefix)
		w.WriteString(v.Str)
		w.Write(crlf)
	case KindError:
		w.WriteByte(errorPrefix)
		w.WriteString(v.ErrName)
		w.WriteByte(' ')
		w.WriteString(v.ErrMsg)
		w.Write(crlf)
	case KindInteger:
		w.WriteByte(integerPrefix)
		w.WriteString(strconv.FormatInt(v.Int, 10))
		w.Write(crlf)
	case KindBulkString:
		w.WriteByte(bulkStrPrefix)
		w.WriteString(strconv.Itoa(len(v.Bulk)))
		w.Write(crlf)
		w.Write(v.Bulk)
		w.Write(crlf)
	case KindNullBulkString:
		w.WriteString("$-1\r\n")
	case KindArray:
		w.WriteByte(arrayPrefix)
		w.WriteString(strconv.Itoa(len(v.Array)))
		w.Write(crlf)
		for _, e := range v.Array {
			if err := Encode(w, e); err != nil {
				return err
			}
		}
	case KindNullArray:
		w.WriteString("*-1\r\n")
	default:
		return fmt.Errorf("resp: unknown value kind %d", v.Kind)
	}
	return w.Flush()
}

// ReadCommand reads one client request off r. Clients are expected to send
// requests as a RESP array of bulk strings (the inline-command shortcut
// real Redis supports is out of scope, matching the original
// implementation's client, which always sends arrays).
func ReadCommand(r *bufio.Reader) ([][]byte, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != arrayPrefix {
		return nil, errors.NewValidationError(nil, errors.ErrorCodeProtocol, "expected RESP array").
			WithField("frame").WithRule("array-prefix").WithProvided(string(line))
	}

	n, err := strconv.Atoi(string(line[1:]))
	if err != nil || n < 0 {
		return nil, errors.NewValidationError(err, errors.ErrorCodeParse, "malformed array length").
			WithField("frame").WithProvided(string(line))
	}

	args := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		argLine, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if len(argLine) == 0 || argLine[0] != bulkStrPrefix {
			return nil, errors.NewValidationError(nil, errors.ErrorCodeProtocol, "expected bulk string").
				WithField("frame").WithRule("bulk-prefix").WithProvided(string(argLine))
		}

		size, err := strconv.Atoi(string(argLine[1:]))
		if err != nil || size < 0 {
			return nil, errors.NewValidationError(err, errors.ErrorCodeParse, "malformed bulk string length").
				WithField("frame").WithProvided(string(argLine))
		}

		buf := make([]byte, size+2) // payload + trailing CRLF.
		if _, err := readFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, buf[:size])
	}

	return args, nil
}

// readLine reads up to and including the next CRLF, returning the bytes
// before it.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	n := len(line)
	if n >= 2 && line[n-2] == '\r' {
		return line[:n-2], nil
	}
	return line[:n-1], nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
