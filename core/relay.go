package core

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

// relayBufferSize bounds every single read. A chunk or domain length
// larger than this is moved across multiple transfer steps; the declared
// length keeps being tracked across steps.
const relayBufferSize = 16 * 1024

// After one direction finishes, the opposite read is given this long to
// drain before it is forced out with a deadline.
const readUnblockDelay = 5 * time.Second

// relay moves bytes both ways until either peer ends the stream or a step
// fails. Each direction runs its own transfer loop over its own buffer and
// its own cipher stream, so the two goroutines share nothing beyond the
// sockets themselves and each stream still sees its bytes in wire order.
func (s *Session) relay(remote net.Conn) error {
	var wg sync.WaitGroup
	var upErr, downErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		upErr = s.pipeClientToRemote(remote)
		remote.SetReadDeadline(time.Now().Add(readUnblockDelay)) // unblock read on remote
	}()
	downErr = s.pipeRemoteToClient(remote)
	s.client.SetReadDeadline(time.Now().Add(readUnblockDelay)) // unblock read on client
	wg.Wait()

	if upErr != nil && !errors.Is(upErr, os.ErrDeadlineExceeded) {
		return upErr
	}
	if downErr != nil && !errors.Is(downErr, os.ErrDeadlineExceeded) {
		return downErr
	}
	return nil
}

// pipeClientToRemote decrypts the client stream and forwards it. With OTA
// active it drives the chunk state machine: header steps consume exactly
// chunkHeaderLen bytes, payload steps read at most the chunk's remaining
// bytes. Each step fully writes its transformed bytes before the next read
// reuses the buffer.
func (s *Session) pipeClientToRemote(remote net.Conn) error {
	for {
		if s.ota && s.chunk.phase == awaitingChunkHeader {
			length, eof, err := s.readChunkHeader()
			if eof || err != nil {
				return err
			}
			s.chunk.startPayload(length)
			continue
		}

		limit := len(s.buf)
		if s.ota && s.chunk.remaining < limit {
			limit = s.chunk.remaining
		}
		n, err := s.client.Read(s.buf[:limit])
		if n > 0 {
			plain, cerr := s.cryptor.Decrypt(s.buf[:n])
			if cerr != nil {
				return cerr
			}
			if s.ota {
				s.chunk.consumePayload(n)
			}
			if _, werr := remote.Write(plain); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// pipeRemoteToClient encrypts return traffic. This direction is never
// chunk-framed, OTA or not.
func (s *Session) pipeRemoteToClient(remote net.Conn) error {
	buf := make([]byte, relayBufferSize)
	for {
		n, err := remote.Read(buf)
		if n > 0 {
			enc, cerr := s.cryptor.Encrypt(buf[:n])
			if cerr != nil {
				return cerr
			}
			if _, werr := s.client.Write(enc); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
