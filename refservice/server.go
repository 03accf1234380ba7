package refservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = time.Second * 5

// Server is a running reference service.
type Server struct {
	listener net.Listener
	server   *http.Server
	done     chan error
}

// Start listens on addr (for instance "127.0.0.1:0" for any free port) and serves the reference
// service until Close is called.
func Start(addr string, opts Options) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	s := &Server{
		listener: listener,
		server: &http.Server{
			Handler:           New(opts),
			ReadHeaderTimeout: time.Second * 10,
		},
		done: make(chan error, 1),
	}
	go func() {
		err := s.server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	return s, nil
}

// URL returns the base URL of the server, such as http://127.0.0.1:53211.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}

// Close shuts the server down and waits for it to stop.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return <-s.done
}
