package analysis

import (
	"strings"

	"github.com/san-kum/ballsim/internal/sim"
)

type Point struct{ X, Y float64 }

// Portrait holds a 2D point cloud for an ASCII plot.
type Portrait struct {
	Body   int
	Axis   int
	Points []Point
}

// PhasePortrait collects (position, velocity) of one body on one axis across
// every recorded frame. A wall bounce shows up as a vertical jump.
func PhasePortrait(result *sim.Result, body, axis int) *Portrait {
	if axis < 0 || axis >= result.Dim {
		return nil
	}

	portrait := &Portrait{
		Body:   body,
		Axis:   axis,
		Points: make([]Point, 0, len(result.Samples)),
	}

	for _, frame := range result.Samples {
		if s, ok := findBody(frame, body); ok {
			portrait.Points = append(portrait.Points, Point{X: s.Position[axis], Y: s.Velocity[axis]})
		}
	}

	return portrait
}

// PlaneCrossings records the (position, velocity) on recordAxis each time the
// body crosses the plane position[crossAxis] = threshold going up.
func PlaneCrossings(result *sim.Result, body, crossAxis, recordAxis int, threshold float64) *Portrait {
	if crossAxis < 0 || crossAxis >= result.Dim || recordAxis < 0 || recordAxis >= result.Dim {
		return nil
	}

	section := &Portrait{Body: body, Axis: recordAxis}
	havePrev := false
	prev := 0.0

	for _, frame := range result.Samples {
		s, ok := findBody(frame, body)
		if !ok {
			continue
		}
		curr := s.Position[crossAxis]
		if havePrev && prev < threshold && curr >= threshold {
			section.Points = append(section.Points, Point{
				X: s.Position[recordAxis],
				Y: s.Velocity[recordAxis],
			})
		}
		prev, havePrev = curr, true
	}

	return section
}

func findBody(frame []sim.Sample, body int) (sim.Sample, bool) {
	if body >= 0 && body < len(frame) && frame[body].Body == body {
		return frame[body], true
	}
	for _, s := range frame {
		if s.Body == body {
			return s, true
		}
	}
	return sim.Sample{}, false
}

// PortraitToASCII plots the points on a width x height character grid with
// axes drawn where they cross the visible area.
func PortraitToASCII(portrait *Portrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
