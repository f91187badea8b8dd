package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapGetter map[string]string

func (m mapGetter) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, "development"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, ""))
	assert.Equal(t, SourceVault, ResolveSource(SourceAuto, "production"))
	assert.Equal(t, SourceVault, ResolveSource(SourceVault, "development"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceEnvironment, "production"))
}

func TestProvider_Environment(t *testing.T) {
	p, err := NewProvider(&ProviderConfig{Source: SourceEnvironment}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	t.Setenv("ENROLLMENT_TEST_SECRET", "s3cret")
	v, err := p.GetSecret(context.Background(), "ENROLLMENT_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, err = p.GetSecret(context.Background(), "ENROLLMENT_TEST_MISSING")
	assert.Error(t, err)
}

func TestProvider_VaultRequiresName(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Source: SourceVault}, zap.NewNop())
	assert.Error(t, err)
}

func TestProvider_UnknownSource(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Source: "carrier-pigeon"}, zap.NewNop())
	assert.Error(t, err)
}

func TestProvider_GetSecretOrEnvPrefersEnvironment(t *testing.T) {
	p := &Provider{
		source: SourceVault,
		vault:  mapGetter{"db-password": "from-vault"},
		logger: zap.NewNop(),
	}

	v, err := p.GetSecretOrEnv(context.Background(), "db-password", "ENROLLMENT_TEST_DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-vault", v)

	t.Setenv("ENROLLMENT_TEST_DB_PASSWORD", "from-env")
	v, err = p.GetSecretOrEnv(context.Background(), "db-password", "ENROLLMENT_TEST_DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
}

func TestSecretCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newSecretCache(time.Minute, func() time.Time { return now })

	c.put("a", "1")
	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	now = now.Add(59 * time.Second)
	_, ok = c.get("a")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.get("a")
	assert.False(t, ok, "entry must expire once the TTL has elapsed")
}
