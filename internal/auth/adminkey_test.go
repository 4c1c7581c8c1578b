package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminKeyHashRoundTrip(t *testing.T) {
	hash, err := HashAdminKey("letmein")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "letmein", hash)

	assert.True(t, CheckAdminKey("letmein", hash))
	assert.False(t, CheckAdminKey("wrong", hash))
	assert.False(t, CheckAdminKey("letmein", "not-a-bcrypt-hash"))
}
