package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/murmursim/murmur/sim"
)

// Actions collects the requests made through the panel this frame. The
// game applies them between ticks so the panel never mutates live state.
type Actions struct {
	ParamsChanged   bool
	CycleBoundary   bool
	CycleAttraction bool
	TogglePause     bool
	PopulationDelta int
}

// slider describes one parameter slider row.
type slider struct {
	label    string
	min, max float32
	get      func(*sim.Params) float32
	set      func(*sim.Params, float32)
}

var paramSliders = []slider{
	{"Alignment", 0, 3,
		func(p *sim.Params) float32 { return p.Alignment },
		func(p *sim.Params, v float32) { p.Alignment = v }},
	{"Cohesion", 0, 3,
		func(p *sim.Params) float32 { return p.Cohesion },
		func(p *sim.Params, v float32) { p.Cohesion = v }},
	{"Separation", 0, 3,
		func(p *sim.Params) float32 { return p.Separation },
		func(p *sim.Params, v float32) { p.Separation = v }},
	{"Perception", 10, 150,
		func(p *sim.Params) float32 { return p.PerceptionRadius },
		func(p *sim.Params, v float32) { p.PerceptionRadius = v }},
	{"Max speed", 1, 12,
		func(p *sim.Params) float32 { return p.MaxSpeed },
		func(p *sim.Params, v float32) { p.MaxSpeed = v }},
	{"Max force", 0.02, 1,
		func(p *sim.Params) float32 { return p.MaxForce },
		func(p *sim.Params, v float32) { p.MaxForce = v }},
	{"Noise", 0, 1,
		func(p *sim.Params) float32 { return p.NoiseStrength },
		func(p *sim.Params, v float32) { p.NoiseStrength = v }},
	{"Attraction", 0, 5,
		func(p *sim.Params) float32 { return p.Attraction },
		func(p *sim.Params, v float32) { p.Attraction = v }},
	{"Trail", 2, 120,
		func(p *sim.Params) float32 { return float32(p.TrailLength) },
		func(p *sim.Params, v float32) { p.TrailLength = int(v) }},
	{"Edge margin", 0, 120,
		func(p *sim.Params) float32 { return p.EdgeMargin },
		func(p *sim.Params, v float32) { p.EdgeMargin = v }},
}

// ParamsPanel renders the right-side parameter panel with live sliders.
type ParamsPanel struct {
	renderer *Renderer
	width    int32
	visible  bool
}

// NewParamsPanel creates the panel, hidden by default.
func NewParamsPanel(width int32) *ParamsPanel {
	return &ParamsPanel{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Toggle switches panel visibility.
func (pp *ParamsPanel) Toggle() bool {
	pp.visible = !pp.visible
	return pp.visible
}

// IsVisible returns whether the panel is shown.
func (pp *ParamsPanel) IsVisible() bool { return pp.visible }

// Draw renders the panel anchored to the right edge of the screen and
// applies slider edits to p. Button presses are reported via Actions.
func (pp *ParamsPanel) Draw(screenW int32, p *sim.Params, paused bool, population int) Actions {
	var acts Actions
	if !pp.visible {
		return acts
	}

	r := pp.renderer
	pad := r.Theme.Padding
	x := screenW - pp.width - pad
	y := pad

	rowH := int32(34)
	buttonRows := int32(3)
	height := int32(len(paramSliders))*rowH + buttonRows*rowH + pad*3 + r.Theme.LineHeight*2

	pp.renderer.DrawPanel(x, y, pp.width, height)

	cx := float32(x + pad)
	cy := float32(y + pad)
	cw := float32(pp.width - 2*pad)

	rl.DrawText("Flock", int32(cx), int32(cy), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	cy += float32(r.Theme.LineHeight) + 4

	for i := range paramSliders {
		s := &paramSliders[i]
		rl.DrawText(s.label, int32(cx), int32(cy), r.Theme.FontSize, r.Theme.LabelColor)
		val := s.get(p)
		rl.DrawText(fmt.Sprintf("%.2f", val), int32(cx+cw-44), int32(cy), r.Theme.FontSize, r.Theme.ValueColor)
		cy += float32(r.Theme.LineHeight)

		newVal := gui.SliderBar(
			rl.Rectangle{X: cx, Y: cy, Width: cw - 50, Height: 14},
			"", "", val, s.min, s.max,
		)
		if newVal != val {
			s.set(p, newVal)
			acts.ParamsChanged = true
		}
		cy += 18
	}

	cy += 6
	if gui.Button(rl.Rectangle{X: cx, Y: cy, Width: cw, Height: 24},
		"Boundary: "+p.Boundary.String()) {
		acts.CycleBoundary = true
	}
	cy += 30

	if gui.Button(rl.Rectangle{X: cx, Y: cy, Width: cw, Height: 24},
		"Cursor: "+p.AttractionMode.String()) {
		acts.CycleAttraction = true
	}
	cy += 30

	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Resume"
	}
	third := (cw - 10) / 3
	if gui.Button(rl.Rectangle{X: cx, Y: cy, Width: third, Height: 24}, pauseLabel) {
		acts.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: cx + third + 5, Y: cy, Width: third, Height: 24},
		fmt.Sprintf("-25 (%d)", population)) {
		acts.PopulationDelta = -25
	}
	if gui.Button(rl.Rectangle{X: cx + 2*(third+5), Y: cy, Width: third, Height: 24}, "+25") {
		acts.PopulationDelta = 25
	}

	return acts
}
