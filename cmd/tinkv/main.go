// Command tinkv is the one-shot CLI surface over an embedded store:
// get/set/del/keys/scan/compact/stats, plus a supplementary interactive
// shell. Every subcommand opens the store, performs one operation, and
// closes it again; the shell keeps the store open for the session.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/iamNilotpal/tinkv/pkg/config"
	"github.com/iamNilotpal/tinkv/pkg/options"
	"github.com/iamNilotpal/tinkv/pkg/tinkv"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return 1
	}

	fs := flag.NewFlagSet("tinkv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dataDir := fs.String("data-dir", "", "override the store's data directory")
	configPath := fs.String("config", "", "path to tinkv.hujson")

	verb := args[0]
	rest := args[1:]
	if err := fs.Parse(rest); err != nil {
		fmt.Fprintln(os.Stderr, "tinkv:", err)
		return 1
	}
	rest = fs.Args()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tinkv:", err)
		return 1
	}

	opts := cfg.Options()
	if *dataDir != "" {
		opts = append(opts, options.WithDataDir(*dataDir))
	}

	db, err := tinkv.Open("tinkv-cli", opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tinkv:", err)
		return 1
	}
	defer db.Close()

	switch verb {
	case "get":
		return cmdGet(db, rest)
	case "set":
		return cmdSet(db, rest)
	case "del":
		return cmdDel(db, rest)
	case "keys":
		return cmdKeys(db, rest)
	case "scan":
		return cmdScan(db, rest)
	case "compact":
		return cmdCompact(db, rest)
	case "stats":
		return cmdStats(db, rest)
	case "shell":
		return runShell(db)
	default:
		printUsage(os.Stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: tinkv <command> [--data-dir DIR] [--config FILE] [args]")
	fmt.Fprintln(w, "commands: get <key>, set <key> <value>, del <key>, keys, scan <prefix>, compact, stats, shell")
}

func cmdGet(db *tinkv.DB, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tinkv get <key>")
		return 1
	}
	value, ok, err := db.Get([]byte(args[0]))
	if err != nil {
		fmt.Fprintln(os.Stderr, "tinkv:", err)
		return 1
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "tinkv: key not found")
		return 1
	}
	fmt.Println(string(value))
	return 0
}

func cmdSet(db *tinkv.DB, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: tinkv set <key> <value>")
		return 1
	}
	if err := db.Set([]byte(args[0]), []byte(args[1])); err != nil {
		fmt.Fprintln(os.Stderr, "tinkv:", err)
		return 1
	}
	return 0
}

func cmdDel(db *tinkv.DB, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tinkv del <key>")
		return 1
	}
	if err := db.Remove([]byte(args[0])); err != nil {
		fmt.Fprintln(os.Stderr, "tinkv:", err)
		return 1
	}
	return 0
}

func cmdKeys(db *tinkv.DB, args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "usage: tinkv keys")
		return 1
	}
	for _, key := range db.Keys() {
		fmt.Println(string(key))
	}
	return 0
}

func cmdScan(db *tinkv.DB, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tinkv scan <prefix>")
		return 1
	}
	prefix := args[0]
	for _, key := range db.Keys() {
		if strings.HasPrefix(string(key), prefix) {
			value, ok, err := db.Get(key)
			if err != nil {
				fmt.Fprintln(os.Stderr, "tinkv:", err)
				return 1
			}
			if ok {
				fmt.Printf("%s\t%s\n", key, value)
			}
		}
	}
	return 0
}

func cmdCompact(db *tinkv.DB, args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "usage: tinkv compact")
		return 1
	}
	if err := db.Compact(); err != nil {
		fmt.Fprintln(os.Stderr, "tinkv:", err)
		return 1
	}
	return 0
}

func cmdStats(db *tinkv.DB, args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "usage: tinkv stats")
		return 1
	}
	snap := db.Stats()
	fmt.Printf("total_active_entries: %d\n", snap.TotalActiveEntries)
	fmt.Printf("total_stale_entries: %d\n", snap.TotalStaleEntries)
	fmt.Printf("size_of_stale_entries: %d\n", snap.SizeOfStaleEntries)
	fmt.Printf("total_data_files: %d\n", snap.TotalDataFiles)
	fmt.Printf("size_of_all_data_files: %d\n", snap.SizeOfAllDataFiles)
	return 0
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tinkv_history")
}

// runShell opens a liner-backed REPL over db supporting the same verbs as
// the one-shot subcommands, restoring the interactive workflow the
// one-shot CLI surface doesn't cover.
func runShell(db *tinkv.DB) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(historyFilePath()); err == nil {
		line.ReadHistory(bufio.NewReader(f))
		f.Close()
	}

	for {
		input, err := line.Prompt("tinkv> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println()
				break
			}
			fmt.Fprintln(os.Stderr, "tinkv:", err)
			return 1
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		fields := strings.Fields(input)
		verb, rest := fields[0], fields[1:]

		switch verb {
		case "exit", "quit":
			saveHistory(line)
			return 0
		case "get":
			cmdGet(db, rest)
		case "set":
			cmdSet(db, rest)
		case "del":
			cmdDel(db, rest)
		case "keys":
			cmdKeys(db, rest)
		case "scan":
			cmdScan(db, rest)
		case "compact":
			cmdCompact(db, rest)
		case "stats":
			cmdStats(db, rest)
		default:
			fmt.Fprintf(os.Stderr, "tinkv: unknown command %q\n", verb)
		}
	}

	saveHistory(line)
	return 0
}

func saveHistory(line *liner.State) {
	path := historyFilePath()
	if path == "" {
		return
	}
	if f, err := os.Create(path); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}
