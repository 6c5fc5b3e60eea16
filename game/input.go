package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/murmursim/murmur/geom"
	"github.com/murmursim/murmur/sim"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.sim.SetRunning(!g.sim.Running())
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyB) {
		g.cycleBoundary()
	}
	if rl.IsKeyPressed(rl.KeyA) {
		g.cycleAttraction()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.panel.Toggle()
	}

	// Population with [ and ]
	step := g.cfg.Population.StepSize
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		g.setPopulation(len(g.sim.Agents()) - step)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		g.setPopulation(len(g.sim.Agents()) + step)
	}

	g.handleCameraInput()
	g.handleCursor()
}

// handleCursor forwards the mouse position to the simulation as the
// attraction/repulsion target. Holding the left button boosts the force.
func (g *Game) handleCursor() {
	if g.params.AttractionMode == sim.AttractOff {
		return
	}

	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	boost := rl.IsMouseButtonDown(rl.MouseLeftButton)
	g.sim.SetCursor(geom.Vec2{X: wx, Y: wy}, boost)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.camera.Resize(w, h)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.ZoomBy(1.0 + wheelMove*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
