// Package render draws debug frames of the arena. The output is a
// diagnostic aid served over HTTP, not a game client: circles and HUD
// text, nothing animated.
package render

import (
	"bytes"
	"fmt"
	"image/png"

	"arena-survival/internal/sim"

	"github.com/fogleman/gg"
)

// Frame renders a snapshot to an encoded PNG at world scale.
func Frame(snap sim.Snapshot) ([]byte, error) {
	width := int(snap.WorldWidth)
	height := int(snap.WorldHeight)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: bad world bounds %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	drawBackground(dc, width, height)
	drawAttacks(dc, snap.Attacks)
	drawPickups(dc, snap.Pickups)
	drawEnemies(dc, snap.Enemies)
	drawProjectiles(dc, snap.Projectiles)
	drawPlayer(dc, snap.Player)
	drawHUD(dc, snap)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("render: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBackground(dc *gg.Context, width, height int) {
	dc.SetRGB(0.08, 0.08, 0.12)
	dc.Clear()

	// Coarse grid so movement is visible between frames.
	dc.SetRGBA(1, 1, 1, 0.05)
	dc.SetLineWidth(1)
	for x := 0; x < width; x += 64 {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y < height; y += 64 {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

func drawAttacks(dc *gg.Context, attacks []sim.AttackView) {
	for _, a := range attacks {
		dc.SetRGBA(0.55, 0.3, 0.9, 0.25)
		dc.DrawCircle(a.Pos.X, a.Pos.Y, a.Radius)
		dc.Fill()

		dc.SetRGBA(0.7, 0.45, 1.0, 0.8)
		dc.SetLineWidth(2)
		dc.DrawCircle(a.Pos.X, a.Pos.Y, a.Radius)
		dc.Stroke()

		dc.SetRGBA(0.9, 0.8, 1.0, 0.9)
		dc.DrawStringAnchored(a.Pattern, a.Pos.X, a.Pos.Y-a.Radius-8, 0.5, 0.5)
	}
}

func drawPickups(dc *gg.Context, pickups []sim.PickupView) {
	dc.SetRGB(0.5, 0.8, 1.0)
	for _, p := range pickups {
		dc.DrawCircle(p.Pos.X, p.Pos.Y, p.Radius*2)
		dc.Fill()
	}
}

func drawEnemies(dc *gg.Context, enemies []sim.EnemyView) {
	for _, e := range enemies {
		if e.Slowed {
			dc.SetRGB(0.4, 0.55, 0.85)
		} else {
			dc.SetRGB(0.8, 0.25, 0.25)
		}
		dc.DrawCircle(e.Pos.X, e.Pos.Y, e.Radius)
		dc.Fill()

		// Health arc above the body.
		if e.MaxHealth > 0 {
			frac := e.Health / e.MaxHealth
			if frac < 0 {
				frac = 0
			}
			dc.SetRGB(0.2, 0.9, 0.3)
			dc.SetLineWidth(3)
			dc.DrawLine(e.Pos.X-e.Radius, e.Pos.Y-e.Radius-6,
				e.Pos.X-e.Radius+2*e.Radius*frac, e.Pos.Y-e.Radius-6)
			dc.Stroke()
		}
	}
}

func drawProjectiles(dc *gg.Context, projectiles []sim.ProjectileView) {
	dc.SetRGB(1.0, 0.85, 0.3)
	for _, p := range projectiles {
		dc.DrawCircle(p.Pos.X, p.Pos.Y, p.Radius)
		dc.Fill()
	}
}

func drawPlayer(dc *gg.Context, player *sim.PlayerView) {
	if player == nil {
		return
	}
	dc.SetRGB(0.3, 0.85, 0.95)
	dc.DrawCircle(player.Pos.X, player.Pos.Y, player.Radius)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawCircle(player.Pos.X, player.Pos.Y, player.Radius+2)
	dc.Stroke()

	dc.DrawStringAnchored(
		fmt.Sprintf("%.0f/%.0f", player.Health, player.MaxHealth),
		player.Pos.X, player.Pos.Y-player.Radius-10, 0.5, 0.5)
}

func drawHUD(dc *gg.Context, snap sim.Snapshot) {
	dc.SetRGB(1, 1, 1)
	dc.DrawString(fmt.Sprintf("tick %d  state %s", snap.Tick, snap.State), 16, 24)
	dc.DrawString(fmt.Sprintf("level %d  xp %.0f/%.0f  kills %d  shards %d",
		snap.Level, snap.Experience, snap.ExperienceGoal, snap.Kills, snap.Shards), 16, 44)
}
