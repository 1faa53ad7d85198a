package volume_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/volcat/pkg/volume"
)

func mustTarget(t *testing.T, raw string) volume.Target {
	t.Helper()
	target, err := volume.ParseURL(raw)
	require.NoError(t, err)
	return target
}

func TestEstablish_AppliesOptionsInOrder(t *testing.T) {
	conn := &fakeConn{file: &fakeFile{}}
	opts := volume.Options{
		{Key: "cache.enabled", Value: "on"},
		{Key: "read-ahead.page-count", Value: "8"},
		{Key: "cache.enabled", Value: "off"},
	}

	sess, err := volume.Establish(context.Background(),
		&fakeDriver{conn: conn}, mustTarget(t, "dfs://host/vol/f"), opts)
	require.NoError(t, err)
	defer func() { _ = sess.Teardown() }()

	// Every entry is applied, in insertion order, duplicates included.
	assert.Equal(t, []volume.Option(opts), conn.applied)
	assert.NotEmpty(t, sess.ID())
}

func TestEstablish_OptionFailureClosesConn(t *testing.T) {
	optErr := errors.New("page-count must be numeric")
	conn := &fakeConn{
		file:    &fakeFile{},
		optErrs: map[string]error{"read-ahead.page-count": optErr},
	}
	opts := volume.Options{
		{Key: "cache.enabled", Value: "on"},
		{Key: "read-ahead.page-count", Value: "bogus"},
		{Key: "cache.enabled", Value: "off"},
	}

	_, err := volume.Establish(context.Background(),
		&fakeDriver{conn: conn}, mustTarget(t, "dfs://host/vol/f"), opts)

	var cfgErr *volume.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "read-ahead.page-count", cfgErr.Option.Key)
	assert.ErrorIs(t, err, optErr)

	// Setup aborted at the failing option: the first applied, the last never.
	assert.Equal(t, []volume.Option{{Key: "cache.enabled", Value: "on"}}, conn.applied)
	assert.Equal(t, 1, conn.closed, "half-configured connection is released")
}

func TestEstablish_ConnectError(t *testing.T) {
	t.Run("wraps plain errors", func(t *testing.T) {
		cause := errors.New("network unreachable")
		_, err := volume.Establish(context.Background(),
			&fakeDriver{connectErr: cause}, mustTarget(t, "dfs://host/vol/f"), nil)

		var connErr *volume.ConnectError
		require.ErrorAs(t, err, &connErr)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "vol", connErr.Target.Volume)
	})

	t.Run("passes driver ConnectErrors through", func(t *testing.T) {
		target := mustTarget(t, "dfs://host/vol/f")
		cause := &volume.ConnectError{Target: target, Err: volume.ErrHostNotServed}
		_, err := volume.Establish(context.Background(),
			&fakeDriver{connectErr: cause}, target, nil)

		assert.Equal(t, cause, err, "driver error is not double-wrapped")
	})
}

func TestSession_TeardownOnce(t *testing.T) {
	conn := &fakeConn{file: &fakeFile{}}
	sess, err := volume.Establish(context.Background(),
		&fakeDriver{conn: conn}, mustTarget(t, "dfs://host/vol/f"), nil)
	require.NoError(t, err)

	require.NoError(t, sess.Teardown())
	require.NoError(t, sess.Teardown())
	require.NoError(t, sess.Teardown())

	assert.Equal(t, 1, conn.closed, "connection released exactly once")
}

func TestSession_EnableDebugLogging(t *testing.T) {
	conn := &fakeConn{file: &fakeFile{}}
	sess, err := volume.Establish(context.Background(),
		&fakeDriver{conn: conn}, mustTarget(t, "dfs://host/vol/f"), nil)
	require.NoError(t, err)
	defer func() { _ = sess.Teardown() }()

	var sink nopWriter
	sess.EnableDebugLogging(&sink)
	assert.Equal(t, &sink, conn.logw)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
