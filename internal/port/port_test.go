package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReturnsConfiguredPortWhenFree(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	free := l.Addr().(*net.TCPAddr).Port
	l.Close()

	resolved, ok := Resolve("127.0.0.1", free)
	assert.True(t, ok)
	assert.Equal(t, free, resolved)
}

func TestResolveFallsBackWhenPortIsTaken(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	taken := l.Addr().(*net.TCPAddr).Port

	resolved, ok := Resolve("127.0.0.1", taken)
	assert.False(t, ok)
	assert.NotEqual(t, taken, resolved)
	assert.NotZero(t, resolved)
}
