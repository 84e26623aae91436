package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTLSConfig_Off(t *testing.T) {
	t.Setenv("REDIS_TLS", "")
	assert.Nil(t, redisTLSConfig())
}

func TestRedisTLSConfig_VerifiesByDefault(t *testing.T) {
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("REDIS_TLS_SKIP_VERIFY", "")

	conf := redisTLSConfig()
	require.NotNil(t, conf)
	assert.False(t, conf.InsecureSkipVerify)
}

func TestRedisTLSConfig_ExplicitSkipVerify(t *testing.T) {
	t.Setenv("REDIS_TLS", "1")
	t.Setenv("REDIS_TLS_SKIP_VERIFY", "true")

	conf := redisTLSConfig()
	require.NotNil(t, conf)
	assert.True(t, conf.InsecureSkipVerify)
}
