package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIPLiteralPassthrough(t *testing.T) {
	for _, ip := range []string{"127.0.0.1", "192.0.2.1", "::1"} {
		got, err := Lookup(ip)
		require.NoError(t, err)
		assert.Equal(t, ip, got)
	}
}

func TestLookupLocalhost(t *testing.T) {
	got, err := Lookup("localhost")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
