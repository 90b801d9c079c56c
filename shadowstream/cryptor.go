package shadowstream

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// cryptor holds the cipher state of one relay session: a decode stream
// primed by the IV at the head of the client stream, and an encode stream
// whose IV is generated here and emitted ahead of the first ciphertext.
type cryptor struct {
	cipher *cp

	dec    cipher.Stream
	readIV []byte // wire bytes accumulated until a full IV is available

	enc cipher.Stream
}

func (c *cryptor) IVLength() int {
	return c.cipher.IVSize()
}

func (c *cryptor) Decrypt(src []byte) ([]byte, error) {
	if c.dec == nil {
		need := c.cipher.IVSize() - len(c.readIV)
		if need > len(src) {
			c.readIV = append(c.readIV, src...)
			return nil, nil
		}
		c.readIV = append(c.readIV, src[:need]...)
		src = src[need:]
		if repeatedIV(c.readIV) {
			return nil, ErrRepeatedIV
		}
		dec, err := c.cipher.makeStream(c.cipher.psk, c.readIV, decryptStream)
		if err != nil {
			return nil, fmt.Errorf("init decrypt stream: %w", err)
		}
		c.dec = dec
	}
	dst := make([]byte, len(src))
	c.dec.XORKeyStream(dst, src)
	return dst, nil
}

func (c *cryptor) Encrypt(src []byte) ([]byte, error) {
	if c.enc == nil {
		iv := make([]byte, c.cipher.IVSize())
		if _, err := rand.Read(iv); err != nil {
			return nil, err
		}
		enc, err := c.cipher.makeStream(c.cipher.psk, iv, encryptStream)
		if err != nil {
			return nil, fmt.Errorf("init encrypt stream: %w", err)
		}
		c.enc = enc
		dst := make([]byte, len(iv)+len(src))
		copy(dst, iv)
		enc.XORKeyStream(dst[len(iv):], src)
		return dst, nil
	}
	dst := make([]byte, len(src))
	c.enc.XORKeyStream(dst, src)
	return dst, nil
}
