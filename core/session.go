package core

import (
	"errors"
	"io"
	"net"
	"time"
)

// Session relays one accepted client connection. It owns the connection,
// a per-session Cryptor and the OTA framing state; nothing is shared with
// other sessions, so a failing session only takes itself down.
type Session struct {
	client  net.Conn
	cryptor Cryptor
	timeout time.Duration

	ota   bool
	chunk chunkState

	// buf backs every client-side read. A step fully consumes it
	// (read, transform, write) before the next read begins.
	buf []byte
}

func NewSession(conn net.Conn, cipher StreamCipher, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &Session{
		client:  conn,
		cryptor: cipher.NewCryptor(),
		timeout: timeout,
		chunk:   newChunkState(),
		buf:     make([]byte, relayBufferSize),
	}
}

// Run decodes the destination header, dials the destination and relays
// until either side ends the stream. The client connection is closed on
// every exit path. An unreachable destination is routine, not a fault,
// and is not reported beyond a debug line.
func (s *Session) Run() {
	defer s.client.Close()

	dst, err := s.parseHeader()
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Peer closed before sending anything.
			return
		}
		logError("parse header from %s: %v", s.client.RemoteAddr(), err)
		return
	}

	logDebug("connecting %s for %s (ota=%v)", dst, s.client.RemoteAddr(), s.ota)
	remote, err := net.DialTimeout("tcp", dst.String(), s.timeout)
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			logDebug("connect %s: timeout", dst)
			return
		}
		logError("connect %s: %v", dst, err)
		return
	}
	defer remote.Close()
	if tc, ok := remote.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}

	if err := s.relay(remote); err != nil {
		logError("relay %s <-> %s: %v", s.client.RemoteAddr(), dst, err)
	}
}
