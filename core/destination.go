package core

import (
	"net"
	"net/netip"
	"strconv"
)

// Wire address types, shared with the SOCKS5 address encoding.
const (
	AddrTypeIPv4   = 0x01
	AddrTypeDomain = 0x03
)

// Destination is the relay target parsed from the encrypted address
// header. A session produces exactly one and never mutates it.
type Destination struct {
	Type byte       // AddrTypeIPv4 or AddrTypeDomain
	IP   netip.Addr // set for AddrTypeIPv4
	Host string     // set for AddrTypeDomain, resolved at dial time
	Port uint16
}

func (d Destination) String() string {
	if d.Type == AddrTypeDomain {
		return net.JoinHostPort(d.Host, strconv.Itoa(int(d.Port)))
	}
	return netip.AddrPortFrom(d.IP, d.Port).String()
}
