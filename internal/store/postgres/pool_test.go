package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolConfigApplyDefaults(t *testing.T) {
	cfg := &PoolConfig{ConnString: "postgres://localhost/app"}
	cfg.ApplyDefaults()

	require.Equal(t, int32(20), cfg.MaxConns)
	require.Equal(t, int32(2), cfg.MinConns)
	require.Equal(t, int32(3600), cfg.MaxConnLifetime)
	require.Equal(t, int32(1800), cfg.MaxConnIdleTime)
	require.Equal(t, int32(10), cfg.ConnectTimeout)
}

func TestPoolConfigApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &PoolConfig{
		ConnString: "postgres://localhost/app",
		MaxConns:   5,
		MinConns:   1,
	}
	cfg.ApplyDefaults()

	require.Equal(t, int32(5), cfg.MaxConns)
	require.Equal(t, int32(1), cfg.MinConns)
}

func TestPoolConfigValidate(t *testing.T) {
	require.Error(t, (&PoolConfig{}).Validate())
	require.NoError(t, (&PoolConfig{ConnString: "postgres://localhost/app"}).Validate())
}

func TestNewPoolRequiresConfig(t *testing.T) {
	_, err := NewPool(context.Background(), nil)
	require.Error(t, err)
}
