package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesktopEntry(t *testing.T) {
	assert.Equal(t, "screen-break.desktop", desktopFileName(" Screen Break "))
	assert.Equal(t, "screenbreak.desktop", desktopFileName(""))

	entry := buildDesktopEntry("screenbreak", "/opt/screen break/screenbreak")
	assert.Contains(t, entry, `Exec="/opt/screen break/screenbreak" run`)
	assert.Contains(t, entry, "Name=screenbreak")
}

func TestAutostart_EnableDisable(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	service := NewService()

	enabled, err := service.AutostartEnabled("screenbreak")
	assert.NoError(t, err)
	assert.False(t, enabled)

	assert.NoError(t, service.EnableAutostart("screenbreak", "/usr/bin/screenbreak"))
	enabled, err = service.AutostartEnabled("screenbreak")
	assert.NoError(t, err)
	assert.True(t, enabled)

	assert.NoError(t, service.DisableAutostart("screenbreak"))
	enabled, err = service.AutostartEnabled("screenbreak")
	assert.NoError(t, err)
	assert.False(t, enabled)
}

func TestHasFullscreenState(t *testing.T) {
	assert.True(t, hasFullscreenState([]string{"_NET_WM_STATE_FOCUSED", "_NET_WM_STATE_FULLSCREEN"}))
	assert.False(t, hasFullscreenState([]string{"_NET_WM_STATE_MAXIMIZED_VERT"}))
	assert.False(t, hasFullscreenState(nil))
}

func TestAutostart_EmptyAppName(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	assert.Error(t, NewService().EnableAutostart("  ", "/usr/bin/screenbreak"))
	assert.Error(t, NewService().DisableAutostart(""))
}
