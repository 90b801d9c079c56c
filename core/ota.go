package core

import (
	"encoding/binary"
	"errors"
	"io"
)

// One-time auth re-frames the client->destination stream into chunks:
//
//	data len: 2 bytes | HMAC-SHA1: 10 bytes | data
//
// The relay consumes the framing but, like the original Shadowsocks
// server, discards the HMAC without verification. The return direction is
// never framed.

const (
	otaTagLen      = 10
	chunkHeaderLen = 2 + otaTagLen
)

var ErrTruncatedChunkHeader = errors.New("truncated chunk auth header")

type chunkPhase int

const (
	// awaitingChunkHeader: the next client bytes are a 12-byte chunk header.
	awaitingChunkHeader chunkPhase = iota
	// awaitingChunkPayload: remaining payload bytes of the current chunk.
	awaitingChunkPayload
)

// chunkState tracks OTA framing across transfer steps. It is a perpetual
// toggle, header -> payload -> header, for the life of the session.
type chunkState struct {
	phase     chunkPhase
	remaining int
}

func newChunkState() chunkState {
	return chunkState{phase: awaitingChunkHeader, remaining: chunkHeaderLen}
}

// startPayload moves to the payload phase after a decoded chunk header.
// A zero-length chunk has no payload and re-arms the header phase at once.
func (st *chunkState) startPayload(n int) {
	if n == 0 {
		*st = newChunkState()
		return
	}
	st.phase = awaitingChunkPayload
	st.remaining = n
}

// consumePayload accounts for n payload bytes read off the wire. The
// transition back to the header phase happens only when the chunk is fully
// consumed, never mid-read.
func (st *chunkState) consumePayload(n int) {
	st.remaining -= n
	if st.remaining == 0 {
		*st = newChunkState()
	}
}

// readChunkHeader accumulates exactly chunkHeaderLen bytes, decrypts them
// and returns the declared payload length of the next chunk. A peer that
// closes on the boundary with no header bytes pending is a clean end of
// stream (eof true, no error); closing mid-header is a protocol failure.
func (s *Session) readChunkHeader() (length int, eof bool, err error) {
	n, err := io.ReadFull(s.client, s.buf[:chunkHeaderLen])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return 0, true, nil
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, false, ErrTruncatedChunkHeader
		}
		return 0, false, err
	}
	b, err := s.cryptor.Decrypt(s.buf[:chunkHeaderLen])
	if err != nil {
		return 0, false, err
	}
	// b[2:12] is the HMAC-SHA1 of the coming payload; discarded unverified.
	return int(binary.BigEndian.Uint16(b[:2])), false, nil
}
