package utils

import (
	"errors"
	"net/netip"
	"strings"
	"time"

	"github.com/alipro/shadowsocks-vertx/core"
	"github.com/alipro/shadowsocks-vertx/shadowstream"
)

var ErrCipherNotSupported = errors.New("cipher not supported")

var SupportedMethods = map[string]struct {
	meta core.MetaCipher
	New  func(meta core.MetaCipher, password string) (core.StreamCipher, error)
}{
	"aes-128-cfb": {
		meta: core.MetaCipher{KeySize: 16, IVSize: 16},
		New:  shadowstream.AESCFB,
	},
	"aes-192-cfb": {
		meta: core.MetaCipher{KeySize: 24, IVSize: 16},
		New:  shadowstream.AESCFB,
	},
	"aes-256-cfb": {
		meta: core.MetaCipher{KeySize: 32, IVSize: 16},
		New:  shadowstream.AESCFB,
	},
	"aes-128-ctr": {
		meta: core.MetaCipher{KeySize: 16, IVSize: 16},
		New:  shadowstream.AESCTR,
	},
	"aes-192-ctr": {
		meta: core.MetaCipher{KeySize: 24, IVSize: 16},
		New:  shadowstream.AESCTR,
	},
	"aes-256-ctr": {
		meta: core.MetaCipher{KeySize: 32, IVSize: 16},
		New:  shadowstream.AESCTR,
	},
	"bf-cfb": {
		meta: core.MetaCipher{KeySize: 16, IVSize: 8},
		New:  shadowstream.BlowfishCFB,
	},
	"cast5-cfb": {
		meta: core.MetaCipher{KeySize: 16, IVSize: 8},
		New:  shadowstream.Cast5CFB,
	},
	"camellia-128-cfb": {
		meta: core.MetaCipher{KeySize: 16, IVSize: 16},
		New:  shadowstream.CamelliaCFB,
	},
	"camellia-192-cfb": {
		meta: core.MetaCipher{KeySize: 24, IVSize: 16},
		New:  shadowstream.CamelliaCFB,
	},
	"camellia-256-cfb": {
		meta: core.MetaCipher{KeySize: 32, IVSize: 16},
		New:  shadowstream.CamelliaCFB,
	},
	"idea-cfb": {
		meta: core.MetaCipher{KeySize: 16, IVSize: 8},
		New:  shadowstream.IDEACFB,
	},
	"rc2-cfb": {
		meta: core.MetaCipher{KeySize: 16, IVSize: 8},
		New:  shadowstream.RC2CFB,
	},
	"rc4-md5": {
		meta: core.MetaCipher{KeySize: 16, IVSize: 16},
		New:  shadowstream.RC4MD5,
	},
	"chacha20-ietf": {
		meta: core.MetaCipher{KeySize: 32, IVSize: 12},
		New:  shadowstream.ChaCha20IETF,
	},
}

func ListCipher() []string {
	var r []string

	for k := range SupportedMethods {
		r = append(r, k)
	}
	return r
}

// PickCipher returns a StreamCipher of the given name. Derive key from
// password.
func PickCipher(name string, password string) (core.StreamCipher, error) {
	name = strings.ToLower(name)
	choice, exist := SupportedMethods[name]

	if !exist {
		return nil, ErrCipherNotSupported
	}

	return choice.New(choice.meta, password)
}

func NewServerConfig(method, password string, addr netip.AddrPort, timeout time.Duration) (core.ServerConfig, error) {
	cipher, err := PickCipher(method, password)
	if err != nil {
		return core.ServerConfig{}, err
	}

	config := core.ServerConfig{
		Cipher:         cipher,
		Addr:           addr,
		ConnectTimeout: timeout,
	}

	return config, nil
}
