package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/chungwong/snakey/internal/entity"
	"github.com/chungwong/snakey/internal/grid"
	"github.com/chungwong/snakey/internal/sim"
)

// Glyphs for each sprite kind and the arena border.
const (
	GlyphHead   = '@'
	GlyphBody   = 'o'
	GlyphFood   = '*'
	GlyphCorner = '+'
	GlyphHWall  = '-'
	GlyphVWall  = '|'
)

// Status is the line drawn under the arena.
type Status struct {
	Paused     bool
	Spectators int
}

// Renderer handles drawing snapshots to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Cell maps an arena position to its screen cell inside the border.
// Row 0 of the arena is drawn at the bottom so that up is +y.
func Cell(height int, p grid.Position) (col, row int) {
	return 1 + p.X, height - p.Y
}

// Render draws the arena border, every sprite and the status line.
func (r *Renderer) Render(snap sim.Snapshot, status Status) {
	r.screen.Clear()

	r.drawBorder(snap.Width, snap.Height)

	// Food first, then the body, then the head on top of anything sharing its cell.
	for i := len(snap.Sprites) - 1; i >= 0; i-- {
		sp := snap.Sprites[i]
		if sp.Position.X < 0 || sp.Position.X >= snap.Width || sp.Position.Y < 0 || sp.Position.Y >= snap.Height {
			continue
		}
		glyph, style := spriteStyle(sp.Kind)
		col, row := Cell(snap.Height, sp.Position)
		r.screen.SetContent(col, row, glyph, style)
	}

	width, _ := r.screen.Size()
	r.RenderMessage(StatusLine(snap, status, width), snap.Height+2)

	r.screen.Show()
}

// StatusLine formats the line under the arena to fit in width columns.
// The pause marker and length are always kept; spectators, tick and game
// number are dropped in that order when the line is too wide.
func StatusLine(snap sim.Snapshot, status Status, width int) string {
	parts := []string{fmt.Sprintf("length %d", snap.Count(entity.KindHead)+snap.Count(entity.KindBody))}
	optional := []string{
		fmt.Sprintf("game %d", snap.Games),
		fmt.Sprintf("tick %d", snap.Tick),
	}
	if status.Spectators > 0 {
		optional = append(optional, fmt.Sprintf("watching %d", status.Spectators))
	}
	var marker []string
	if status.Paused {
		marker = []string{"[paused]"}
	}

	for n := len(optional); n >= 0; n-- {
		line := strings.Join(append(append(append([]string{}, parts...), optional[:n]...), marker...), "  ")
		if n == 0 || len(line) <= width {
			return line
		}
	}
	return ""
}

// drawBorder outlines a width x height arena with one cell of wall on each side.
func (r *Renderer) drawBorder(width, height int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	right, bottom := width+1, height+1

	for x := 1; x < right; x++ {
		r.screen.SetContent(x, 0, GlyphHWall, style)
		r.screen.SetContent(x, bottom, GlyphHWall, style)
	}
	for y := 1; y < bottom; y++ {
		r.screen.SetContent(0, y, GlyphVWall, style)
		r.screen.SetContent(right, y, GlyphVWall, style)
	}
	for _, c := range [][2]int{{0, 0}, {right, 0}, {0, bottom}, {right, bottom}} {
		r.screen.SetContent(c[0], c[1], GlyphCorner, style)
	}
}

// spriteStyle returns the glyph and style for a sprite kind.
func spriteStyle(kind entity.Kind) (rune, tcell.Style) {
	switch kind {
	case entity.KindHead:
		return GlyphHead, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case entity.KindBody:
		return GlyphBody, tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case entity.KindFood:
		return GlyphFood, tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return '?', tcell.StyleDefault
	}
}

// RenderMessage displays a message on the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range msg {
		r.screen.SetContent(i, y, ch, style)
	}
}
