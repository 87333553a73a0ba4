package resources

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcon_RendersCachedPNG(t *testing.T) {
	for _, state := range []IconState{IconActive, IconPaused, IconBreak} {
		resource, err := Icon(state)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(resource.Content()))
		require.NoError(t, err)
		assert.Equal(t, iconSize, img.Bounds().Dx())

		again := MustIcon(state)
		assert.Same(t, resource, again)
	}
}

func TestIcon_UnknownState(t *testing.T) {
	_, err := Icon("sparkly")
	assert.Error(t, err)
}
