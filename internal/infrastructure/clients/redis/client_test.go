package redis_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisclient "github.com/docify/docify/internal/infrastructure/clients/redis"
	"github.com/docify/docify/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := redisclient.NewClient(&config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewClient_FailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	_, err = redisclient.NewClient(&config.RedisConfig{Host: "127.0.0.1", Port: port})
	assert.Error(t, err)
}

func TestClient_Key(t *testing.T) {
	client := redisclient.Wrap(nil)
	assert.Equal(t, "docify:session:abc", client.Key("session", "abc"))
	assert.Equal(t, "docify:", client.Key())
}
