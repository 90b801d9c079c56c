package core

import (
	"net/netip"
	"time"
)

// DefaultConnectTimeout bounds outbound dials. Unreachable destinations
// are common, and a session stuck on a dead dial also holds the client
// socket in CLOSE_WAIT.
const DefaultConnectTimeout = 3 * time.Second

type ServerConfig struct {
	Cipher StreamCipher
	Addr   netip.AddrPort

	// ConnectTimeout for outbound dials; zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration
}
