// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package server exposes the lifecycle layer over a unix socket. One
// connection per client process; requests are newline-delimited JSON, each
// answered with exactly one reply line. Handlers are the producers of staged
// mutations; they never touch the GPU.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"sync/atomic"

	"github.com/bytedance/sonic"
	holos "github.com/gogpu/holos"
	"github.com/gogpu/holos/assets"
	"github.com/gogpu/holos/drawable"
	"github.com/gogpu/holos/scene"
)

// Options configures a Server. The zero value is usable.
type Options struct {
	// MaxLineBytes caps the size of one request line. Zero means 1 MiB.
	MaxLineBytes int
}

const defaultMaxLineBytes = 1 << 20

// Server accepts client connections on a unix socket and translates wire
// requests into System calls.
type Server struct {
	log  *slog.Logger
	sys  *drawable.System
	ln   net.Listener
	opts Options

	nextClient atomic.Int64
}

// Listen binds the socket at path. A stale socket file left by a previous
// run is removed first.
func Listen(path string, sys *drawable.System, opts Options) (*Server, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("server: remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("server: listen: %w", err)
	}
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = defaultMaxLineBytes
	}
	return &Server{
		log:  holos.Logger(),
		sys:  sys,
		ln:   ln,
		opts: opts,
	}, nil
}

// Addr returns the bound socket address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Close stops accepting new connections. Live handlers keep serving until
// their clients disconnect.
func (s *Server) Close() error { return s.ln.Close() }

// Serve accepts connections until ctx is cancelled or Close is called,
// spawning one handler goroutine per connection. A failed accept is logged
// and the loop continues; accept failures are never fatal.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.ln.Close() })
	defer stop()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error("client connection failed", "err", err)
			continue
		}
		id := s.nextClient.Add(1)
		s.log.Debug("client connected", "client", id)
		go s.handle(conn, id)
	}
}

// handle serves one connection. A malformed request fails that request only;
// the connection and every other client keep working.
func (s *Server) handle(conn net.Conn, id int64) {
	defer conn.Close()
	defer s.log.Debug("client disconnected", "client", id)

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), s.opts.MaxLineBytes)

	// Per-client resource search prefixes, set by the set_prefixes op.
	var prefixes []string

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var req request
		if err := sonic.Unmarshal(line, &req); err != nil {
			s.reply(conn, response{Error: "malformed request: " + err.Error()})
			continue
		}
		s.reply(conn, s.dispatch(&req, &prefixes))
	}
	if err := sc.Err(); err != nil {
		s.log.Debug("client read failed", "client", id, "err", err)
	}
}

func (s *Server) dispatch(req *request, prefixes *[]string) response {
	switch req.Op {
	case "set_prefixes":
		*prefixes = req.Prefixes
		return response{OK: true}

	case "create_model":
		transform, err := decodeTransform(req.Transform)
		if err != nil {
			return response{Error: err.Error()}
		}
		path, err := s.sys.CreateModel(req.Parent, req.Name, transform,
			assets.ParseResourceID(req.Resource), *prefixes)
		if err != nil {
			return response{Error: err.Error()}
		}
		return response{OK: true, Path: path}

	case "set_material_parameter":
		v, err := decodeValue(req.Value)
		if err != nil {
			return response{Error: err.Error()}
		}
		if err := s.sys.SetMaterialParameter(req.Path, req.Slot, req.Param, v, *prefixes); err != nil {
			return response{Error: err.Error()}
		}
		return response{OK: true}

	case "apply_surface_material":
		if err := s.sys.ApplySurfaceMaterial(req.Path, req.Target, req.Slot); err != nil {
			return response{Error: err.Error()}
		}
		return response{OK: true}

	case "set_surface_queue_offset":
		if err := s.sys.SetSurfaceQueueOffset(req.Path, req.Offset); err != nil {
			return response{Error: err.Error()}
		}
		return response{OK: true}

	case "set_enabled":
		if req.Enabled == nil {
			return response{Error: "missing enabled"}
		}
		if err := s.sys.SetEnabled(req.Path, *req.Enabled); err != nil {
			return response{Error: err.Error()}
		}
		return response{OK: true}

	case "remove":
		if err := s.sys.RemoveObject(req.Path); err != nil {
			return response{Error: err.Error()}
		}
		return response{OK: true}
	}
	return response{Error: fmt.Sprintf("unknown op %q", req.Op)}
}

func (s *Server) reply(conn net.Conn, resp response) {
	out, err := sonic.Marshal(resp)
	if err != nil {
		s.log.Error("reply encode failed", "err", err)
		return
	}
	out = append(out, '\n')
	if _, err := conn.Write(out); err != nil {
		s.log.Debug("reply write failed", "err", err)
	}
}

func decodeTransform(t []float32) ([16]float32, error) {
	switch len(t) {
	case 0:
		return scene.Identity(), nil
	case 16:
		var m [16]float32
		copy(m[:], t)
		return m, nil
	}
	return [16]float32{}, fmt.Errorf("transform must have 16 elements, got %d", len(t))
}
