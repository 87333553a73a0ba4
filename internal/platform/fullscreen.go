package platform

// FullscreenDetector reports whether the focused window covers the screen.
type FullscreenDetector interface {
	FullscreenActive() bool
}

// NewFullscreenDetector returns a platform-specific detector. Platforms
// without a probe always report false.
func NewFullscreenDetector() FullscreenDetector {
	return newFullscreenDetector()
}

type noFullscreen struct{}

func (noFullscreen) FullscreenActive() bool {
	return false
}
