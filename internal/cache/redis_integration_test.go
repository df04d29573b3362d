//go:build integration

package cache

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

type cachedPlace struct {
	Name string `json:"name"`
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCache(ctx, startRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	var got cachedPlace
	assert.ErrorIs(t, c.GetJSON(ctx, "place:1", &got), ErrMiss)

	require.NoError(t, c.SetJSON(ctx, "place:1", cachedPlace{Name: "Glendalough"}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, "place:2", cachedPlace{Name: "Burren"}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, "other:1", cachedPlace{Name: "keep"}, time.Minute))

	require.NoError(t, c.GetJSON(ctx, "place:1", &got))
	assert.Equal(t, "Glendalough", got.Name)

	require.NoError(t, c.DeleteByPrefix(ctx, "place:"))
	assert.ErrorIs(t, c.GetJSON(ctx, "place:2", &got), ErrMiss)
	require.NoError(t, c.GetJSON(ctx, "other:1", &got))
	assert.Equal(t, "keep", got.Name)
}
