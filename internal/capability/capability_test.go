package capability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdminDefaultsToFalse(t *testing.T) {
	assert.False(t, IsAdmin(context.Background()))
	assert.False(t, IsAdmin(nil)) //nolint:staticcheck
}

func TestWithCapabilitiesRoundTrip(t *testing.T) {
	ctx := WithCapabilities(context.Background(), Capabilities{Admin: true})
	assert.True(t, IsAdmin(ctx))
	assert.Equal(t, Capabilities{Admin: true}, FromContext(ctx))
}

func TestStaticResolver(t *testing.T) {
	caps, err := StaticResolver{Capabilities: Capabilities{Admin: true}}.Resolve(context.Background())
	require.NoError(t, err)
	assert.True(t, caps.Admin)
}
