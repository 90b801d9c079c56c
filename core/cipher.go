package core

import (
	"strconv"
)

type KeySizeError int

func (e KeySizeError) Error() string {
	return "key size error: need " + strconv.Itoa(int(e)) + " bytes"
}

type MetaCipher struct {
	KeySize int
	IVSize  int
}

// StreamCipher is a configured cipher method bound to a pre-shared key.
// One StreamCipher serves the whole server; all per-connection state lives
// in the Cryptors it creates.
type StreamCipher interface {
	KeySize() int
	IVSize() int
	Key() []byte
	NewCryptor() Cryptor
}

// Cryptor carries the cipher state of a single session: one decode stream
// for client->destination bytes and one independent encode stream for
// destination->client bytes. Both streams are strictly order-sensitive:
// every wire byte of a direction must pass through the matching call, in
// arrival order, or all following output on that stream is garbage.
type Cryptor interface {
	IVLength() int

	// Decrypt consumes the next len(src) wire bytes of the client stream.
	// The first IVLength bytes ever consumed are the IV and produce no
	// plaintext, so early calls may return fewer bytes than given.
	Decrypt(src []byte) ([]byte, error)

	// Encrypt consumes the next len(src) plaintext bytes of the return
	// stream. The first call emits a freshly generated IV ahead of the
	// ciphertext.
	Encrypt(src []byte) ([]byte, error)
}
