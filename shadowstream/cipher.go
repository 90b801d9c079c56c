package shadowstream

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rc4"

	"github.com/alipro/shadowsocks-vertx/core"
	"github.com/dgryski/go-camellia"
	"github.com/dgryski/go-idea"
	"github.com/dgryski/go-rc2"
	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/cast5"
	"golang.org/x/crypto/chacha20"
)

// direction of the stream being built. CFB is the only mode here that
// distinguishes the two.
type direction int

const (
	decryptStream direction = iota
	encryptStream
)

type makeStreamFunc func(key, iv []byte, dir direction) (cipher.Stream, error)

type cp struct {
	psk        []byte
	meta       core.MetaCipher
	makeStream makeStreamFunc
}

func (a *cp) Key() []byte {
	return a.psk
}

func (a *cp) KeySize() int {
	return a.meta.KeySize
}

func (a *cp) IVSize() int {
	return a.meta.IVSize
}

func (a *cp) NewCryptor() core.Cryptor {
	return &cryptor{cipher: a}
}

func newCFBStream(block cipher.Block, err error, iv []byte, dir direction) (cipher.Stream, error) {
	if err != nil {
		return nil, err
	}
	if dir == encryptStream {
		return cipher.NewCFBEncrypter(block, iv), nil
	}
	return cipher.NewCFBDecrypter(block, iv), nil
}

func newAESCFBStream(key, iv []byte, dir direction) (cipher.Stream, error) {
	block, err := aes.NewCipher(key)
	return newCFBStream(block, err, iv, dir)
}

func newAESCTRStream(key, iv []byte, _ direction) (cipher.Stream, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewCTR(block, iv), nil
}

func newBlowfishStream(key, iv []byte, dir direction) (cipher.Stream, error) {
	block, err := blowfish.NewCipher(key)
	return newCFBStream(block, err, iv, dir)
}

func newCast5Stream(key, iv []byte, dir direction) (cipher.Stream, error) {
	block, err := cast5.NewCipher(key)
	return newCFBStream(block, err, iv, dir)
}

func newCamelliaStream(key, iv []byte, dir direction) (cipher.Stream, error) {
	block, err := camellia.New(key)
	return newCFBStream(block, err, iv, dir)
}

func newIdeaStream(key, iv []byte, dir direction) (cipher.Stream, error) {
	block, err := idea.NewCipher(key)
	return newCFBStream(block, err, iv, dir)
}

func newRC2Stream(key, iv []byte, dir direction) (cipher.Stream, error) {
	block, err := rc2.New(key, 16)
	return newCFBStream(block, err, iv, dir)
}

func newRC4MD5Stream(key, iv []byte, _ direction) (cipher.Stream, error) {
	h := md5.New()
	h.Write(key)
	h.Write(iv)
	return rc4.NewCipher(h.Sum(nil))
}

func newChaCha20Stream(key, iv []byte, _ direction) (cipher.Stream, error) {
	return chacha20.NewUnauthenticatedCipher(key, iv)
}

func newStreamCipher(meta core.MetaCipher, password string, mk makeStreamFunc) (core.StreamCipher, error) {
	psk := kdf(password, meta.KeySize)
	if len(psk) != meta.KeySize {
		return nil, core.KeySizeError(meta.KeySize)
	}
	return &cp{psk: psk, meta: meta, makeStream: mk}, nil
}

// AESCFB creates a new Cipher with a pre-shared key. meta.KeySize selects
// AES-128/192/256.
func AESCFB(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newAESCFBStream)
}

// AESCTR creates a new Cipher with a pre-shared key. meta.KeySize selects
// AES-128/192/256.
func AESCTR(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newAESCTRStream)
}

func BlowfishCFB(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newBlowfishStream)
}

func Cast5CFB(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newCast5Stream)
}

func CamelliaCFB(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newCamelliaStream)
}

func IDEACFB(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newIdeaStream)
}

func RC2CFB(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newRC2Stream)
}

// RC4MD5 derives the per-stream RC4 key as md5(key | iv), original
// Shadowsocks style.
func RC4MD5(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newRC4MD5Stream)
}

// ChaCha20IETF uses the 12-byte-nonce ChaCha20 variant.
func ChaCha20IETF(meta core.MetaCipher, password string) (core.StreamCipher, error) {
	return newStreamCipher(meta, password, newChaCha20Stream)
}

// key-derivation function from original Shadowsocks
func kdf(password string, keyLen int) []byte {
	var b, prev []byte
	h := md5.New()
	for len(b) < keyLen {
		h.Write(prev)
		h.Write([]byte(password))
		b = h.Sum(b)
		prev = b[len(b)-h.Size():]
		h.Reset()
	}
	return b[:keyLen]
}
