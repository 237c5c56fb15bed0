package observability

import (
	"context"
	"testing"
	"time"

	"github.com/clipfuellabs/clipfuel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerProviderDisabledWithoutEndpoint(t *testing.T) {
	provider, err := newTracerProvider(context.Background(), config.Config{})

	require.NoError(t, err)
	assert.Nil(t, provider)
	assert.False(t, (&Tracing{}).Enabled())
	assert.False(t, (*Tracing)(nil).Enabled())
}

func TestTracerProviderBuiltWhenEndpointConfigured(t *testing.T) {
	cfg := config.Config{
		AppEnv:       "test",
		AppName:      "clipfuel",
		OTLPEndpoint: "localhost:4318",
	}

	provider, err := newTracerProvider(context.Background(), cfg)

	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.True(t, (&Tracing{provider: provider}).Enabled())

	// No spans were recorded, so shutdown must not touch the network.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, provider.Shutdown(ctx))
}
