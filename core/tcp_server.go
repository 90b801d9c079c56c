package core

import (
	"errors"
	"net"
)

type TCPServer struct {
	config   ServerConfig
	listener *net.TCPListener
}

func NewTCPServer(config ServerConfig) TCPServer {
	server := TCPServer{
		config: config,
	}

	return server
}

func (s *TCPServer) Init() error {
	ln, err := net.ListenTCP("tcp", net.TCPAddrFromAddrPort(s.config.Addr))
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Addr reports the bound listen address, useful when the configured port
// was 0.
func (s *TCPServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start accepts connections and hands each one to its own session
// goroutine. Session failures are logged by the session itself and never
// reach the accept loop.
func (s *TCPServer) Start() error {
	if s.listener == nil {
		if err := s.Init(); err != nil {
			return err
		}
	}
	logInfo("listening on %s", s.listener.Addr())

	for {
		conn, err := s.listener.AcceptTCP()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logWarn("accept: %v", err)
			continue
		}
		go NewSession(conn, s.config.Cipher, s.config.ConnectTimeout).Run()
	}
}

func (s *TCPServer) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
