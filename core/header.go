package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/netip"
)

// OTA_FLAG is the bit of the address-type byte requesting one-time auth
// for the session. It is cleared before the type is interpreted.
const OTA_FLAG = 0x10

var ErrTruncatedHeader = errors.New("truncated address header")

// UnsupportedAddressTypeError reports an address-type byte outside the
// IPv4/domain subset this relay speaks.
type UnsupportedAddressTypeError byte

func (e UnsupportedAddressTypeError) Error() string {
	return fmt.Sprintf("unsupported address type: %#02x", byte(e))
}

// parseHeader consumes the encrypted destination header from the client:
//
//	IV | addr type: 1 byte | addr | port: 2 bytes big endian
//
//	addr type 0x1: addr = ipv4, 4 bytes
//	addr type 0x3: addr = 1 byte length + host bytes
//
// When OTA is requested a 10-byte HMAC-SHA1 of the header follows. The tag
// is decrypted and discarded: skipping the decrypt call would desynchronize
// the decode stream for everything after it.
//
// A peer that closes before sending a single byte is a clean end of stream
// and surfaces as io.EOF; a close anywhere inside the header is
// ErrTruncatedHeader.
func (s *Session) parseHeader() (Destination, error) {
	var dst Destination

	// IV plus the address-type byte. Only the type byte survives
	// decryption; the IV primes the decode stream.
	n := s.cryptor.IVLength() + 1
	if m, err := io.ReadFull(s.client, s.buf[:n]); err != nil {
		if m == 0 && errors.Is(err, io.EOF) {
			return dst, io.EOF
		}
		return dst, ErrTruncatedHeader
	}
	b, err := s.cryptor.Decrypt(s.buf[:n])
	if err != nil {
		return dst, err
	}
	addrType := b[0]
	if addrType&OTA_FLAG != 0 {
		s.ota = true
		addrType &^= OTA_FLAG
	}

	switch addrType {
	case AddrTypeIPv4:
		if b, err = s.readAndDecrypt(4); err != nil {
			return dst, err
		}
		dst.Type = AddrTypeIPv4
		dst.IP = netip.AddrFrom4([4]byte(b))
	case AddrTypeDomain:
		if b, err = s.readAndDecrypt(1); err != nil {
			return dst, err
		}
		if b, err = s.readAndDecrypt(int(b[0])); err != nil {
			return dst, err
		}
		dst.Type = AddrTypeDomain
		dst.Host = string(b)
	default:
		return dst, UnsupportedAddressTypeError(addrType)
	}

	if b, err = s.readAndDecrypt(2); err != nil {
		return dst, err
	}
	dst.Port = binary.BigEndian.Uint16(b)

	if s.ota {
		// The header tag is never verified, only consumed (see ota.go).
		if _, err = s.readAndDecrypt(otaTagLen); err != nil {
			return dst, err
		}
	}

	return dst, nil
}

// readAndDecrypt reads exactly n wire bytes into the session buffer and
// runs them through the decode stream. Any close before the n-th byte is
// a truncated header.
func (s *Session) readAndDecrypt(n int) ([]byte, error) {
	if _, err := io.ReadFull(s.client, s.buf[:n]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncatedHeader
		}
		return nil, err
	}
	return s.cryptor.Decrypt(s.buf[:n])
}
