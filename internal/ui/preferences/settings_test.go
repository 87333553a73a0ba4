package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"screenbreak/internal/core/model"
)

func TestSettings_RoundTripThroughConfig(t *testing.T) {
	config := model.DefaultConfig()
	settings := FromConfig(config, true)
	assert.True(t, settings.StartAtLogin)
	assert.Equal(t, DefaultOverlayOpacity, settings.OverlayOpacity)

	settings.EyeRestInterval = 25 * time.Minute
	settings.StrictMode = true
	settings.HydrationTracking = true

	updated := settings.Apply(config)
	assert.Equal(t, 25*time.Minute, updated.EyeRestInterval)
	assert.True(t, updated.StrictMode)
	assert.True(t, updated.HydrationTracking)
	assert.Equal(t, config.Breaks, updated.Breaks, "breaks are not edited here")
	assert.Equal(t, config.WorkStart, updated.WorkStart)
}

func TestParseAtLeast(t *testing.T) {
	value, ok := parseAtLeast("20", 1)
	assert.True(t, ok)
	assert.Equal(t, 20, value)

	_, ok = parseAtLeast("3", 5)
	assert.False(t, ok)
	_, ok = parseAtLeast("soon", 1)
	assert.False(t, ok)
}

func TestOpacityToAlpha(t *testing.T) {
	assert.Equal(t, uint8(0), OpacityToAlpha(-1))
	assert.Equal(t, uint8(255), OpacityToAlpha(2))
	assert.Equal(t, uint8(127), OpacityToAlpha(0.5))
}
