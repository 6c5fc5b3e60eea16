package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/murmursim/murmur/sim"
	"github.com/murmursim/murmur/telemetry"
	"github.com/murmursim/murmur/ui"
)

var (
	backgroundColor = rl.Color{R: 12, G: 14, B: 20, A: 255}
	trailColor      = rl.Color{R: 90, G: 130, B: 180, A: 255}
	boidColdColor   = rl.Color{R: 120, G: 170, B: 230, A: 255}
	boidHotColor    = rl.Color{R: 240, G: 160, B: 80, A: 255}
	cursorColor     = rl.Color{R: 240, G: 220, B: 120, A: 160}
)

// Draw renders one frame and closes the perf tick started in Update.
func (g *Game) Draw() {
	g.perf.RecordFrame()
	g.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	agents := g.sim.Agents()
	for i := range agents {
		g.drawTrail(&agents[i])
	}
	for i := range agents {
		g.drawBoid(&agents[i])
	}

	g.drawCursorMarker()

	g.perf.StartPhase(telemetry.PhaseUI)
	g.hud.Draw(ui.HUDState{
		FPS:            int(rl.GetFPS()),
		Tick:           g.sim.Tick(),
		Population:     len(agents),
		Boundary:       g.params.Boundary.String(),
		Attraction:     g.params.AttractionMode.String(),
		Paused:         !g.sim.Running(),
		StepsPerUpdate: g.stepsPerUpdate,
		Zoom:           g.camera.Zoom,
	})

	acts := g.panel.Draw(int32(g.screenWidth), &g.params, !g.sim.Running(), len(agents))
	g.applyActions(acts)

	rl.EndDrawing()
	g.perf.EndTick()
}

// drawBoid draws an agent as a heading-oriented triangle, colored by local
// crowding.
func (g *Game) drawBoid(a *sim.Agent) {
	size := g.params.BoidSize
	if !g.camera.IsVisible(a.Pos.X, a.Pos.Y, size*2) {
		return
	}

	heading := float32(math.Atan2(float64(a.Vel.Y), float64(a.Vel.X)))
	col := crowdColor(a.NeighborCount, g.params.ColorSensitivity)

	sx, sy := g.camera.WorldToScreen(a.Pos.X, a.Pos.Y)
	g.drawBoidShape(sx, sy, heading, size*g.camera.Zoom, col)

	for _, ghost := range g.camera.GhostPositions(a.Pos.X, a.Pos.Y, size*2) {
		g.drawBoidShape(ghost.X, ghost.Y, heading, size*g.camera.Zoom, col)
	}
}

// drawBoidShape draws the triangle at a screen position. Vertices go
// counter-clockwise so raylib does not cull the face.
func (g *Game) drawBoidShape(sx, sy, heading, size float32, col rl.Color) {
	cos := float32(math.Cos(float64(heading)))
	sin := float32(math.Sin(float64(heading)))

	// Nose ahead, two tail corners behind.
	nose := rl.Vector2{X: sx + cos*size*1.6, Y: sy + sin*size*1.6}
	left := rl.Vector2{X: sx - cos*size - sin*size*0.7, Y: sy - sin*size + cos*size*0.7}
	right := rl.Vector2{X: sx - cos*size + sin*size*0.7, Y: sy - sin*size - cos*size*0.7}

	rl.DrawTriangle(nose, left, right, col)
}

// drawTrail draws an agent's position history as a fading polyline,
// breaking at boundary seams and at camera seams.
func (g *Game) drawTrail(a *sim.Agent) {
	n := a.Trail.Len()
	if n < 2 {
		return
	}

	// Segments longer than half the viewport are camera-seam artifacts
	// from shortest-path projection, not real motion.
	maxJumpX := g.screenWidth / 2
	maxJumpY := g.screenHeight / 2

	prev := a.Trail.At(0)
	px, py := g.camera.WorldToScreen(prev.X, prev.Y)

	for i := 1; i < n; i++ {
		pt := a.Trail.At(i)
		sx, sy := g.camera.WorldToScreen(pt.X, pt.Y)

		jumpX := sx - px
		jumpY := sy - py
		if jumpX < 0 {
			jumpX = -jumpX
		}
		if jumpY < 0 {
			jumpY = -jumpY
		}

		if !pt.Break && jumpX < maxJumpX && jumpY < maxJumpY {
			col := trailColor
			// Older points fade out.
			col.A = uint8(40 + 160*i/n)
			rl.DrawLineV(rl.Vector2{X: px, Y: py}, rl.Vector2{X: sx, Y: sy}, col)
		}

		px, py = sx, sy
	}
}

// drawCursorMarker shows the active attraction target.
func (g *Game) drawCursorMarker() {
	if g.params.AttractionMode == sim.AttractOff {
		return
	}
	mouse := rl.GetMousePosition()
	radius := float32(6)
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		radius = 10
	}
	rl.DrawCircleLines(int32(mouse.X), int32(mouse.Y), radius, cursorColor)
}

// crowdColor maps a neighbor count to a color between the lone and crowded
// endpoints. sensitivity scales how fast the ramp saturates.
func crowdColor(neighbors int, sensitivity float32) rl.Color {
	t := float32(neighbors) * sensitivity
	if t > 1 {
		t = 1
	}
	return rl.Color{
		R: uint8(float32(boidColdColor.R) + t*float32(int(boidHotColor.R)-int(boidColdColor.R))),
		G: uint8(float32(boidColdColor.G) + t*float32(int(boidHotColor.G)-int(boidColdColor.G))),
		B: uint8(float32(boidColdColor.B) + t*float32(int(boidHotColor.B)-int(boidColdColor.B))),
		A: 255,
	}
}
