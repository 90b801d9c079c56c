package core

import (
	"bytes"
)

// xorCipher is a minimal StreamCipher for exercising the relay: a keyed
// XOR stream behind the same IV-prefix byte accounting as the real
// methods. Deterministic, so wire bytes are easy to build by hand.
type xorCipher struct {
	ivSize int
	key    byte
}

func (c xorCipher) KeySize() int { return 1 }
func (c xorCipher) IVSize() int  { return c.ivSize }
func (c xorCipher) Key() []byte  { return []byte{c.key} }

func (c xorCipher) NewCryptor() Cryptor {
	return &xorCryptor{cipher: c}
}

type xorCryptor struct {
	cipher  xorCipher
	readIV  []byte
	decInit bool
	encInit bool
}

func (x *xorCryptor) IVLength() int { return x.cipher.ivSize }

func (x *xorCryptor) Decrypt(src []byte) ([]byte, error) {
	if !x.decInit {
		need := x.cipher.ivSize - len(x.readIV)
		if need > len(src) {
			x.readIV = append(x.readIV, src...)
			return nil, nil
		}
		x.readIV = append(x.readIV, src[:need]...)
		src = src[need:]
		x.decInit = true
	}
	return xorWith(src, x.cipher.key), nil
}

func (x *xorCryptor) Encrypt(src []byte) ([]byte, error) {
	if !x.encInit {
		x.encInit = true
		iv := bytes.Repeat([]byte{0xAA}, x.cipher.ivSize)
		return append(iv, xorWith(src, x.cipher.key)...), nil
	}
	return xorWith(src, x.cipher.key), nil
}

func xorWith(src []byte, key byte) []byte {
	dst := make([]byte, len(src))
	for i, b := range src {
		dst[i] = b ^ key
	}
	return dst
}

// encodeWire is the client half of xorCipher: an IV followed by the
// XOR-transformed plaintext.
func encodeWire(c xorCipher, plain []byte) []byte {
	wire := bytes.Repeat([]byte{0x55}, c.ivSize)
	return append(wire, xorWith(plain, c.key)...)
}
