package resources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"fyne.io/fyne/v2"
)

// IconState selects the tray icon tint.
type IconState string

const (
	IconActive IconState = "active"
	IconPaused IconState = "paused"
	IconBreak  IconState = "break"
)

const iconSize = 64

var iconColors = map[IconState]color.NRGBA{
	IconActive: {R: 72, G: 176, B: 120, A: 255},
	IconPaused: {R: 140, G: 140, B: 140, A: 255},
	IconBreak:  {R: 232, G: 190, B: 66, A: 255},
}

var iconCache sync.Map

// Icon returns the generated icon for state.
func Icon(state IconState) (fyne.Resource, error) {
	name := "screenbreak-" + string(state) + ".png"
	if cached, ok := iconCache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	tint, ok := iconColors[state]
	if !ok {
		return nil, fmt.Errorf("load icon %s: unknown state", state)
	}
	data, err := renderIcon(tint)
	if err != nil {
		return nil, fmt.Errorf("load icon %s: %w", state, err)
	}

	resource := fyne.NewStaticResource(name, data)
	iconCache.Store(name, resource)
	return resource, nil
}

// MustIcon returns the icon or panics on error.
func MustIcon(state IconState) fyne.Resource {
	resource, err := Icon(state)
	if err != nil {
		panic(err)
	}
	return resource
}

// renderIcon draws a filled ring with a hollow centre, the shape of an eye's
// iris, in tint.
func renderIcon(tint color.NRGBA) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	center := float64(iconSize-1) / 2
	outer := center
	inner := center * 0.4

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			distance := dx*dx + dy*dy
			if distance <= outer*outer && distance >= inner*inner {
				img.SetNRGBA(x, y, tint)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
