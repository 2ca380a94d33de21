package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iamNilotpal/tinkv/pkg/tinkv"
)

// Dispatch runs one already-parsed command (args[0] is the verb, matched
// case-insensitively) against db and returns the RESP reply to send back.
func Dispatch(db *tinkv.DB, args [][]byte) Value {
	if len(args) == 0 {
		return Error("ERR", "empty command")
	}

	verb := strings.ToUpper(string(args[0]))
	rest := args[1:]

	switch verb {
	case "PING":
		return cmdPing(rest)
	case "GET":
		return cmdGet(db, rest)
	case "MGET":
		return cmdMGet(db, rest)
	case "SET":
		return cmdSet(db, rest)
	case "MSET":
		return cmdMSet(db, rest)
	case "DEL":
		return cmdDel(db, rest)
	case "DBSIZE":
		return cmdDBSize(db, rest)
	case "EXISTS":
		return cmdExists(db, rest)
	case "KEYS":
		return cmdKeys(db, rest)
	case "COMPACT":
		return cmdCompact(db, rest)
	case "INFO":
		return cmdInfo(db, rest)
	case "COMMAND":
		return cmdCommand(rest)
	default:
		return Error("ERR", fmt.Sprintf("unknown command '%s'", verb))
	}
}

func cmdPing(args [][]byte) Value {
	if len(args) == 0 {
		return SimpleString("PONG")
	}
	return BulkString(args[0])
}

func cmdGet(db *tinkv.DB, args [][]byte) Value {
	if len(args) != 1 {
		return arityError("get")
	}
	value, ok, err := db.Get(args[0])
	if err != nil {
		return ErrorFromEngine(err)
	}
	if !ok {
		return NullBulkString()
	}
	return BulkString(value)
}

func cmdMGet(db *tinkv.DB, args [][]byte) Value {
	if len(args) == 0 {
		return arityError("mget")
	}
	values := make([]Value, len(args))
	for i, key := range args {
		value, ok, err := db.Get(key)
		switch {
		case err != nil:
			values[i] = ErrorFromEngine(err)
		case !ok:
			values[i] = NullBulkString()
		default:
			values[i] = BulkString(value)
		}
	}
	return Array(values)
}

func cmdSet(db *tinkv.DB, args [][]byte) Value {
	if len(args) != 2 {
		return arityError("set")
	}
	if err := db.Set(args[0], args[1]); err != nil {
		return ErrorFromEngine(err)
	}
	return SimpleString("OK")
}

func cmdMSet(db *tinkv.DB, args [][]byte) Value {
	if len(args) == 0 || len(args)%2 != 0 {
		return arityError("mset")
	}
	for i := 0; i < len(args); i += 2 {
		if err := db.Set(args[i], args[i+1]); err != nil {
			return ErrorFromEngine(err)
		}
	}
	return SimpleString("OK")
}

func cmdDel(db *tinkv.DB, args [][]byte) Value {
	if len(args) == 0 {
		return arityError("del")
	}
	var removed int64
	for _, key := range args {
		if err := db.Remove(key); err == nil {
			removed++
		}
	}
	return Integer(removed)
}

func cmdDBSize(db *tinkv.DB, args [][]byte) Value {
	if len(args) != 0 {
		return arityError("dbsize")
	}
	return Integer(int64(db.Len()))
}

func cmdExists(db *tinkv.DB, args [][]byte) Value {
	if len(args) == 0 {
		return arityError("exists")
	}
	var count int64
	for _, key := range args {
		if db.Contains(key) {
			count++
		}
	}
	return Integer(count)
}

func cmdKeys(db *tinkv.DB, args [][]byte) Value {
	if len(args) > 1 {
		return arityError("keys")
	}
	pattern := "*"
	if len(args) == 1 {
		pattern = string(args[0])
	}

	var matched []Value
	for _, key := range db.Keys() {
		ok, err := filepath.Match(pattern, string(key))
		if err != nil {
			return Error("ERR", "invalid pattern: "+err.Error())
		}
		if ok {
			matched = append(matched, BulkString(key))
		}
	}
	return Array(matched)
}

func cmdCompact(db *tinkv.DB, args [][]byte) Value {
	if len(args) != 0 {
		return arityError("compact")
	}
	if err := db.Compact(); err != nil {
		return ErrorFromEngine(err)
	}
	return SimpleString("OK")
}

func cmdInfo(db *tinkv.DB, args [][]byte) Value {
	if len(args) > 1 {
		return arityError("info")
	}
	snap := db.Stats()

	body := "# Server\r\n" +
		"tinkv_mode:standalone\r\n" +
		"\r\n" +
		"# Stats\r\n" +
		fmt.Sprintf("total_active_entries:%d\r\n", snap.TotalActiveEntries) +
		fmt.Sprintf("total_stale_entries:%d\r\n", snap.TotalStaleEntries) +
		fmt.Sprintf("size_of_stale_entries:%d\r\n", snap.SizeOfStaleEntries) +
		fmt.Sprintf("total_data_files:%d\r\n", snap.TotalDataFiles) +
		fmt.Sprintf("size_of_all_data_files:%d\r\n", snap.SizeOfAllDataFiles)

	return BulkString([]byte(body))
}

func cmdCommand(args [][]byte) Value {
	return Array(nil)
}

func arityError(cmd string) Value {
	return Error("ERR", fmt.Sprintf("wrong number of arguments for '%s' command", cmd))
}
