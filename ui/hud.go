package ui

import "fmt"

// HUDState is the per-frame data the HUD displays.
type HUDState struct {
	FPS            int
	Tick           uint64
	Population     int
	Boundary       string
	Attraction     string
	Paused         bool
	StepsPerUpdate int
	Zoom           float32
}

// HUD renders the top-left status readout.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates the HUD.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD and returns the Y coordinate below it.
func (h *HUD) Draw(s HUDState) int32 {
	r := h.renderer
	pad := r.Theme.Padding

	lines := []struct{ label, value string }{
		{"fps", fmt.Sprintf("%d", s.FPS)},
		{"tick", fmt.Sprintf("%d", s.Tick)},
		{"boids", fmt.Sprintf("%d", s.Population)},
		{"edge", s.Boundary},
		{"cursor", s.Attraction},
	}
	if s.StepsPerUpdate > 1 {
		lines = append(lines, struct{ label, value string }{"speed", fmt.Sprintf("x%d", s.StepsPerUpdate)})
	}
	if s.Zoom != 1 {
		lines = append(lines, struct{ label, value string }{"zoom", fmt.Sprintf("%.2f", s.Zoom)})
	}
	if s.Paused {
		lines = append(lines, struct{ label, value string }{"state", "paused"})
	}

	height := int32(len(lines))*r.Theme.LineHeight + 2*pad
	width := int32(150)
	h.renderer.DrawPanel(pad, pad, width, height)

	y := 2 * pad
	for _, ln := range lines {
		y = h.renderer.DrawLabelValue(2*pad, y, ln.label, ln.value)
	}
	return pad + height
}
