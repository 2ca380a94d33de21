package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/iamNilotpal/tinkv/pkg/tinkv"
)

// Server listens for RESP2 connections and dispatches each request to a
// single shared DB. The store's own mutex already serializes mutation, so
// the server itself stays free to accept and serve many connections
// concurrently, one goroutine per connection.
type Server struct {
	db     *tinkv.DB
	log    *zap.SugaredLogger
	ln     net.Listener
	closed atomic.Bool
}

// New wraps db behind a RESP2 listener.
func New(db *tinkv.DB, log *zap.SugaredLogger) *Server {
	return &Server{db: db, log: log}
}

// ListenAndServe binds addr and serves connections until Close is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.ln = ln

	s.log.Infow("TinKV server is listening", "addr", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			s.log.Warnw("Failed to accept connection", "error", err)
			continue
		}
		go s.serveConn(conn)
	}
}

// Close stops accepting new connections. In-flight connections run to
// completion.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.log.Debugw("Client connected", "remote", remote)

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		args, err := ReadCommand(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debugw("Connection closed after read error", "remote", remote, "error", err)
			}
			return
		}

		reply := Dispatch(s.db, args)
		if err := Encode(writer, reply); err != nil {
			s.log.Warnw("Failed to write reply", "remote", remote, "error", err)
			return
		}
	}
}
