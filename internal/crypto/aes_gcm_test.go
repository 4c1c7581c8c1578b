package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestNewAESGCMRejectsBadKeySize(t *testing.T) {
	_, err := NewAESGCM([]byte("too short"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestSealOpenRoundTrip(t *testing.T) {
	aead, err := NewAESGCM(testKey())
	require.NoError(t, err)

	sealed, err := Seal(aead, []byte("app password"))
	require.NoError(t, err)

	plaintext, err := Open(aead, sealed)
	require.NoError(t, err)
	assert.Equal(t, "app password", string(plaintext))
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	aead, err := NewAESGCM(testKey())
	require.NoError(t, err)

	sealed, err := Seal(aead, []byte("app password"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = Open(aead, sealed)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOpenRejectsShortInput(t *testing.T) {
	aead, err := NewAESGCM(testKey())
	require.NoError(t, err)

	_, err = Open(aead, []byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestHexRoundTrip(t *testing.T) {
	aead, err := NewAESGCM(testKey())
	require.NoError(t, err)

	sealedHex, err := SealToHex(aead, "secret value")
	require.NoError(t, err)

	plaintext, err := OpenFromHex(aead, sealedHex)
	require.NoError(t, err)
	assert.Equal(t, "secret value", plaintext)
}

func TestOpenFromHexRejectsInvalidHex(t *testing.T) {
	aead, err := NewAESGCM(testKey())
	require.NoError(t, err)

	_, err = OpenFromHex(aead, "zz-not-hex")
	assert.Error(t, err)
}
