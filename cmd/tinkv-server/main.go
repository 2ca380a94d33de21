// Command tinkv-server runs the Redis-wire-compatible RESP2 listener in
// front of a TinKV store: flags override tinkv.hujson, which overrides
// pkg/options.NewDefaultOptions.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/iamNilotpal/tinkv/internal/server"
	"github.com/iamNilotpal/tinkv/pkg/config"
	tinkverrors "github.com/iamNilotpal/tinkv/pkg/errors"
	"github.com/iamNilotpal/tinkv/pkg/logger"
	"github.com/iamNilotpal/tinkv/pkg/options"
	"github.com/iamNilotpal/tinkv/pkg/tinkv"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		addr            = flag.StringP("addr", "a", "", "listening address (default from config, or 127.0.0.1:7379)")
		dataDir         = flag.String("data-dir", "", "override the store's data directory")
		configPath      = flag.String("config", "", "path to tinkv.hujson")
		maxKeySize      = flag.Uint64("max-key-size", 0, "max key size in bytes")
		maxValueSize    = flag.Uint64("max-value-size", 0, "max value size in bytes")
		maxDataFileSize = flag.Uint64("max-data-file-size", 0, "max data file size in bytes")
		sync            = flag.Bool("sync", false, "fsync the active data file after every write")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tinkv-server:", err)
		return 1
	}

	opts := cfg.Options()
	if *dataDir != "" {
		opts = append(opts, options.WithDataDir(*dataDir))
	}
	if *maxKeySize > 0 {
		opts = append(opts, options.WithMaxKeySize(*maxKeySize))
	}
	if *maxValueSize > 0 {
		opts = append(opts, options.WithMaxValueSize(*maxValueSize))
	}
	if *maxDataFileSize > 0 {
		opts = append(opts, options.WithMaxDataFileSize(*maxDataFileSize))
	}
	if *sync {
		opts = append(opts, options.WithSync(true))
	}

	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	log := logger.New("tinkv-server")

	db, err := tinkv.Open("tinkv-server", opts...)
	if err != nil {
		log.Errorw("Failed to open store", append([]any{"error", err}, logFields(err)...)...)
		return 1
	}
	defer db.Close()

	srv := server.New(db, log)

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(listenAddr) }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			log.Errorw("Server stopped with error", append([]any{"error", err}, logFields(err)...)...)
			return 1
		}
	case <-sig:
		log.Infow("Shutting down")
		if err := srv.Close(); err != nil {
			log.Warnw("Error while closing listener", "error", err)
		}
		<-done
	}

	return 0
}

// logFields flattens the details map err carries (operation, suggestion,
// etc.) into zap's alternating key/value form, so an operator sees that
// detail without grepping the message string for it. Segment id, offset,
// field and rule are held in struct fields, not in the details map, and
// are not included.
func logFields(err error) []any {
	if se, ok := tinkverrors.AsStorageError(err); ok {
		return se.LogFields()
	}
	if ve, ok := tinkverrors.AsValidationError(err); ok {
		return ve.LogFields()
	}
	if ke, ok := tinkverrors.AsKVError(err); ok {
		return ke.LogFields()
	}
	return nil
}
