package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG draws every lit braille dot as a small circle, scale pixels
// per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dotsW, dotsH := canvas.Dots()
	width := float64(dotsW) * scale
	height := float64(dotsH) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#00ff00">
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	for y := 0; y < dotsH; y++ {
		for x := 0; x < dotsW; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoriesToSVG draws the x/y projection of a recorded run: the box, one
// path per body in its colour and the final position of each body as a disc
// of its radius. halfExtents sizes the box; without it the run's own extent
// is used.
func TrajectoriesToSVG(result *sim.Result, halfExtents []float64, width, height int) string {
	if result == nil || len(result.Samples) == 0 || result.Dim < 2 {
		return ""
	}

	hx, hy := extent(result, halfExtents)
	scale := min(float64(width)/(2*hx), float64(height)/(2*hy))
	toX := func(x float64) float64 { return float64(width)/2 + x*scale }
	toY := func(y float64) float64 { return float64(height)/2 - y*scale }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444466" stroke-width="2"/>
`, width, height, width, height, background, toX(-hx), toY(hy), 2*hx*scale, 2*hy*scale)

	paths := make(map[int]*strings.Builder)
	order := make([]int, 0, len(result.Samples[0]))
	for _, frame := range result.Samples {
		for _, s := range frame {
			p, ok := paths[s.Body]
			if !ok {
				p = &strings.Builder{}
				paths[s.Body] = p
				order = append(order, s.Body)
				fmt.Fprintf(p, "M%.1f,%.1f", toX(s.Position[0]), toY(s.Position[1]))
				continue
			}
			fmt.Fprintf(p, " L%.1f,%.1f", toX(s.Position[0]), toY(s.Position[1]))
		}
	}

	info := make(map[int]sim.BodyInfo, len(result.Bodies))
	for _, b := range result.Bodies {
		info[b.ID] = b
	}

	for _, id := range order {
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-opacity=\"0.6\" stroke-width=\"1.5\" d=\"%s\"/>\n",
			colorOf(info[id]), paths[id].String())
	}
	for _, s := range result.Samples[len(result.Samples)-1] {
		b := info[s.Body]
		r := max(b.Radius*scale, 1.5)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			toX(s.Position[0]), toY(s.Position[1]), r, colorOf(b))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func extent(result *sim.Result, halfExtents []float64) (float64, float64) {
	if len(halfExtents) >= 2 && halfExtents[0] > 0 && halfExtents[1] > 0 {
		return halfExtents[0], halfExtents[1]
	}
	hx, hy := 1.0, 1.0
	for _, frame := range result.Samples {
		for _, s := range frame {
			hx = max(hx, abs(s.Position[0])*1.1)
			hy = max(hy, abs(s.Position[1])*1.1)
		}
	}
	return hx, hy
}

func colorOf(b sim.BodyInfo) string {
	if b.Color == "" {
		return "#ffffff"
	}
	return b.Color
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
