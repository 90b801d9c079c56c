package shadowstream

import (
	"testing"

	"github.com/alipro/shadowsocks-vertx/core"
	"github.com/stretchr/testify/require"
)

// EVP_BytesToKey(MD5) vector, the derivation every shadowsocks
// implementation agrees on.
func TestKDF(t *testing.T) {
	want := []byte{
		0x38, 0x58, 0xf6, 0x22, 0x30, 0xac, 0x3c, 0x91,
		0x5f, 0x30, 0x0c, 0x66, 0x43, 0x12, 0xc6, 0x3f,
		0x56, 0x83, 0x78, 0x52, 0x96, 0x14, 0xd2, 0x2d,
		0xdb, 0x49, 0x23, 0x7d, 0x2f, 0x60, 0xbf, 0xdf,
	}
	require.Equal(t, want, kdf("foobar", 32))
	require.Equal(t, want[:16], kdf("foobar", 16))
}

type methodCase struct {
	name string
	meta core.MetaCipher
	New  func(core.MetaCipher, string) (core.StreamCipher, error)
}

func testMethods() []methodCase {
	return []methodCase{
		{"aes-128-cfb", core.MetaCipher{KeySize: 16, IVSize: 16}, AESCFB},
		{"aes-256-cfb", core.MetaCipher{KeySize: 32, IVSize: 16}, AESCFB},
		{"aes-256-ctr", core.MetaCipher{KeySize: 32, IVSize: 16}, AESCTR},
		{"bf-cfb", core.MetaCipher{KeySize: 16, IVSize: 8}, BlowfishCFB},
		{"cast5-cfb", core.MetaCipher{KeySize: 16, IVSize: 8}, Cast5CFB},
		{"camellia-256-cfb", core.MetaCipher{KeySize: 32, IVSize: 16}, CamelliaCFB},
		{"idea-cfb", core.MetaCipher{KeySize: 16, IVSize: 8}, IDEACFB},
		{"rc2-cfb", core.MetaCipher{KeySize: 16, IVSize: 8}, RC2CFB},
		{"rc4-md5", core.MetaCipher{KeySize: 16, IVSize: 16}, RC4MD5},
		{"chacha20-ietf", core.MetaCipher{KeySize: 32, IVSize: 12}, ChaCha20IETF},
	}
}

func TestCryptorRoundTrip(t *testing.T) {
	msg := []byte("the quick brown fox jumps over the lazy dog")

	for _, m := range testMethods() {
		t.Run(m.name, func(t *testing.T) {
			c, err := m.New(m.meta, "round-trip-password")
			require.NoError(t, err)
			require.Equal(t, m.meta.KeySize, c.KeySize())
			require.Equal(t, m.meta.IVSize, c.IVSize())

			enc := c.NewCryptor()
			dec := c.NewCryptor()

			wire, err := enc.Encrypt(msg)
			require.NoError(t, err)
			require.Len(t, wire, c.IVSize()+len(msg))

			plain, err := dec.Decrypt(wire)
			require.NoError(t, err)
			require.Equal(t, msg, plain)

			// Later writes carry no IV prefix and continue the stream.
			wire2, err := enc.Encrypt([]byte("second write"))
			require.NoError(t, err)
			require.Len(t, wire2, len("second write"))

			plain2, err := dec.Decrypt(wire2)
			require.NoError(t, err)
			require.Equal(t, []byte("second write"), plain2)
		})
	}
}

// The decode stream must survive the IV and ciphertext arriving in
// arbitrary fragments.
func TestDecryptFragmented(t *testing.T) {
	msg := []byte("fragmented arrival")

	for _, m := range testMethods() {
		t.Run(m.name, func(t *testing.T) {
			c, err := m.New(m.meta, "fragment-password")
			require.NoError(t, err)

			wire, err := c.NewCryptor().Encrypt(msg)
			require.NoError(t, err)

			dec := c.NewCryptor()
			var plain []byte
			for _, b := range wire {
				out, err := dec.Decrypt([]byte{b})
				require.NoError(t, err)
				plain = append(plain, out...)
			}
			require.Equal(t, msg, plain)
		})
	}
}

func TestEncryptDecryptStreamsIndependent(t *testing.T) {
	c, err := AESCFB(core.MetaCipher{KeySize: 32, IVSize: 16}, "independent-streams")
	require.NoError(t, err)

	server := c.NewCryptor()
	client := c.NewCryptor()

	// Interleave directions; each stream must stay self-consistent.
	up1, err := client.Encrypt([]byte("up-one"))
	require.NoError(t, err)
	down1, err := server.Encrypt([]byte("down-one"))
	require.NoError(t, err)
	up2, err := client.Encrypt([]byte("up-two"))
	require.NoError(t, err)

	got, err := server.Decrypt(up1)
	require.NoError(t, err)
	require.Equal(t, []byte("up-one"), got)

	got, err = client.Decrypt(down1)
	require.NoError(t, err)
	require.Equal(t, []byte("down-one"), got)

	got, err = server.Decrypt(up2)
	require.NoError(t, err)
	require.Equal(t, []byte("up-two"), got)
}
