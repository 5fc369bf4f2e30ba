package integration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/treewalk/internal/integration"
)

func TestRenderFor(t *testing.T) {
	t.Parallel()

	script, err := integration.RenderFor("/usr/local/bin/treewalk")
	require.NoError(t, err)

	assert.Contains(t, script, `"/usr/local/bin/treewalk" --action print --output none`)
	assert.NotContains(t, script, "{{")
	assert.Contains(t, script, "twf()")
}

func TestRender(t *testing.T) {
	t.Parallel()

	script, err := integration.Render()
	require.NoError(t, err)
	assert.Contains(t, script, "--action print")
}
