package slidesmith

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
)

// Theme colours used where the master styles leave paint to the theme.
const (
	svgAccent1     = "#4472C4"
	svgAccent1Dark = "#2F528F"
	svgTableBand1  = "#CFD5EA"
	svgTableBand2  = "#E9EBF5"
)

// unitPt is a point in a shape's unit box, (0,0) top left and (1,1) bottom right.
type unitPt struct{ x, y float64 }

// presetPolygons holds the outlines of presets that are plain polygons.
var presetPolygons = map[AutoShapeType][]unitPt{
	AutoShapeDiamond:           {{0.5, 0}, {1, 0.5}, {0.5, 1}, {0, 0.5}},
	AutoShapeFlowchartDecision: {{0.5, 0}, {1, 0.5}, {0.5, 1}, {0, 0.5}},
	AutoShapeTriangle:          {{0.5, 0}, {1, 1}, {0, 1}},
	AutoShapeRtTriangle:        {{0, 0}, {1, 1}, {0, 1}},
	AutoShapeHexagon:           {{0.25, 0}, {0.75, 0}, {1, 0.5}, {0.75, 1}, {0.25, 1}, {0, 0.5}},
	AutoShapeOctagon: {{0.29, 0}, {0.71, 0}, {1, 0.29}, {1, 0.71},
		{0.71, 1}, {0.29, 1}, {0, 0.71}, {0, 0.29}},
	AutoShapeArrowRight:    {{0, 0.25}, {0.5, 0.25}, {0.5, 0}, {1, 0.5}, {0.5, 1}, {0.5, 0.75}, {0, 0.75}},
	AutoShapeFlowchartData: {{0.2, 0}, {1, 0}, {0.8, 1}, {0, 1}},
	AutoShapeLightningBolt: {{0.392, 0}, {0.595, 0.281}, {0.512, 0.315}, {0.767, 0.556}, {0.684, 0.596},
		{1, 1}, {0.464, 0.69}, {0.566, 0.648}, {0.232, 0.449}, {0.352, 0.388}, {0, 0.18}},
	AutoShapePentagon: regularPolygon(5, 1),
	AutoShapeHeptagon: regularPolygon(7, 1),
	AutoShapeStar5:    regularPolygon(5, 0.382),
}

// regularPolygon returns the vertices of an n-gon inscribed in the unit box,
// first vertex at the top. An inner ratio below 1 alternates with inner
// vertices to make a star.
func regularPolygon(n int, inner float64) []unitPt {
	steps := n
	if inner < 1 {
		steps = 2 * n
	}
	pts := make([]unitPt, 0, steps)
	for i := 0; i < steps; i++ {
		r := 0.5
		if inner < 1 && i%2 == 1 {
			r *= inner
		}
		a := -math.Pi/2 + float64(i)*2*math.Pi/float64(steps)
		pts = append(pts, unitPt{0.5 + r*math.Cos(a), 0.5 + r*math.Sin(a)})
	}
	return pts
}

// box maps unit coordinates onto a shape's pixel frame.
type box struct{ x, y, w, h float64 }

func (b box) at(ux, uy float64) string {
	return px(b.x+ux*b.w) + "," + px(b.y+uy*b.h)
}

func (e *svgExporter) drawAutoShape(s *AutoShape, x, y, w, h float64) {
	fill, stroke, sw := e.paint(&s.BaseShape, svgAccent1, svgAccent1Dark, e.ptPx(1))
	paint := fmt.Sprintf(` fill="%s" stroke="%s" stroke-width="%s"`, fill, stroke, px(sw))
	b := box{x, y, w, h}

	switch s.shapeType {
	case AutoShapeEllipse:
		fmt.Fprintf(&e.body, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n", px(x+w/2), px(y+h/2), px(w/2), px(h/2), paint)
	case AutoShapeRoundedRect:
		r := math.Min(w, h) * 0.1667
		fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s"%s/>`+"\n", px(x), px(y), px(w), px(h), px(r), px(r), paint)
	case AutoShapeHeart:
		fmt.Fprintf(&e.body, `<path d="M%s C%s %s %s C%s %s %s C%s %s %s C%s %s %s Z"%s/>`+"\n",
			b.at(0.5, 0.25), b.at(0.5, 0.05), b.at(0.1, -0.05), b.at(0.05, 0.25),
			b.at(0, 0.5), b.at(0.35, 0.7), b.at(0.5, 1),
			b.at(0.65, 0.7), b.at(1, 0.5), b.at(0.95, 0.25),
			b.at(0.9, -0.05), b.at(0.5, 0.05), b.at(0.5, 0.25), paint)
	case AutoShapeMoon:
		fmt.Fprintf(&e.body, `<path d="M%s C%s %s %s C%s %s %s C%s %s %s C%s %s %s Z"%s/>`+"\n",
			b.at(1, 0), b.at(0.3, 0), b.at(0, 0.25), b.at(0, 0.5),
			b.at(0, 0.75), b.at(0.3, 1), b.at(1, 1),
			b.at(0.55, 0.85), b.at(0.45, 0.65), b.at(0.45, 0.5),
			b.at(0.45, 0.35), b.at(0.55, 0.15), b.at(1, 0), paint)
	case AutoShapeFlowchartDocument:
		fmt.Fprintf(&e.body, `<path d="M%s L%s L%s C%s %s %s Z"%s/>`+"\n",
			b.at(0, 0), b.at(1, 0), b.at(1, 0.83),
			b.at(0.7, 0.7), b.at(0.3, 1.05), b.at(0, 0.9), paint)
	case AutoShapeCloud:
		e.drawCloud(b, paint)
	case AutoShapeSun:
		e.drawSun(b, paint)
	case AutoShapeSmileyFace:
		e.drawSmiley(b, paint, stroke, sw)
	case AutoShapeNoSmoking:
		e.drawNoSymbol(b, paint)
	default:
		if pts, ok := presetPolygons[s.shapeType]; ok {
			e.writePolygon(b, pts, paint)
		} else {
			fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n", px(x), px(y), px(w), px(h), paint)
		}
	}

	if strings.TrimSpace(s.text) == "" {
		return
	}
	var paragraphs []*Paragraph
	for _, line := range strings.Split(s.text, "\n") {
		para := NewParagraph()
		para.alignment.Horizontal = HorizontalCenter
		para.CreateTextRun(line).font = inheritedFont()
		paragraphs = append(paragraphs, para)
	}
	e.drawText(paragraphs, textFrame{x: x, y: y, w: w, h: h, wrap: true, anchor: TextAnchorMiddle, color: ColorWhite})
}

func (e *svgExporter) writePolygon(b box, pts []unitPt, paint string) {
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = b.at(p.x, p.y)
	}
	fmt.Fprintf(&e.body, `<polygon points="%s"%s/>`+"\n", strings.Join(coords, " "), paint)
}

// drawCloud outlines a cloud as a ring of outward arcs.
func (e *svgExporter) drawCloud(b box, paint string) {
	ring := []unitPt{{0.15, 0.8}, {0.08, 0.45}, {0.33, 0.18}, {0.65, 0.12}, {0.92, 0.38}, {0.88, 0.78}}
	rx, ry := px(b.w*0.14), px(b.h*0.14)
	var d strings.Builder
	d.WriteString("M" + b.at(ring[0].x, ring[0].y))
	for i := 1; i <= len(ring); i++ {
		p := ring[i%len(ring)]
		fmt.Fprintf(&d, " A%s,%s 0 0 1 %s", rx, ry, b.at(p.x, p.y))
	}
	fmt.Fprintf(&e.body, `<path d="%s Z"%s/>`+"\n", d.String(), paint)
}

func (e *svgExporter) drawSun(b box, paint string) {
	cx, cy := b.x+b.w/2, b.y+b.h/2
	fmt.Fprintf(&e.body, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n", px(cx), px(cy), px(b.w*0.25), px(b.h*0.25), paint)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		spread := math.Pi / 16
		tip := unitPt{0.5 + 0.5*math.Cos(a), 0.5 + 0.5*math.Sin(a)}
		l := unitPt{0.5 + 0.33*math.Cos(a-spread), 0.5 + 0.33*math.Sin(a-spread)}
		r := unitPt{0.5 + 0.33*math.Cos(a+spread), 0.5 + 0.33*math.Sin(a+spread)}
		e.writePolygon(b, []unitPt{tip, l, r}, paint)
	}
}

func (e *svgExporter) drawSmiley(b box, paint, stroke string, sw float64) {
	cx, cy := b.x+b.w/2, b.y+b.h/2
	fmt.Fprintf(&e.body, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n", px(cx), px(cy), px(b.w/2), px(b.h/2), paint)
	for _, ex := range []float64{0.35, 0.65} {
		fmt.Fprintf(&e.body, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s"/>`+"\n",
			px(b.x+ex*b.w), px(b.y+0.38*b.h), px(b.w*0.05), px(b.h*0.05), stroke)
	}
	fmt.Fprintf(&e.body, `<path d="M%s Q%s %s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		b.at(0.28, 0.65), b.at(0.5, 0.85), b.at(0.72, 0.65), stroke, px(math.Max(sw, 1)))
}

// drawNoSymbol draws a ring with a diagonal bar.
func (e *svgExporter) drawNoSymbol(b box, paint string) {
	rx, ry := b.w/2, b.h/2
	irx, iry := rx*0.7, ry*0.7
	fmt.Fprintf(&e.body, `<path fill-rule="evenodd" d="M%s A%s,%s 0 1 0 %s A%s,%s 0 1 0 %s Z M%s A%s,%s 0 1 0 %s A%s,%s 0 1 0 %s Z"%s/>`+"\n",
		b.at(0, 0.5), px(rx), px(ry), b.at(1, 0.5), px(rx), px(ry), b.at(0, 0.5),
		b.at(0.15, 0.5), px(irx), px(iry), b.at(0.85, 0.5), px(irx), px(iry), b.at(0.15, 0.5), paint)
	e.writePolygon(b, []unitPt{{0.22, 0.3}, {0.3, 0.22}, {0.78, 0.7}, {0.7, 0.78}}, paint)
}

func (e *svgExporter) drawPicture(s *DrawingShape, x, y, w, h float64) {
	if len(s.data) == 0 {
		return
	}
	mime := s.mimeType
	if mime == "" {
		mime = sniffImageMime(s.data)
	}
	fmt.Fprintf(&e.body, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none" xlink:href="data:%s;base64,%s"/>`+"\n",
		px(x), px(y), px(w), px(h), mime, base64.StdEncoding.EncodeToString(s.data))
	if s.border != nil && s.border.Style != BorderNone {
		fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
			px(x), px(y), px(w), px(h), s.border.Color.Hex(), px(math.Max(e.emu(s.border.Width), 0.5)))
	}
}

// drawTable paints cells in the default medium table style: an accent header
// row and banded body rows separated by white rules.
func (e *svgExporter) drawTable(t *TableShape, x, y float64) {
	widths := t.ColumnWidths()
	colX := make([]float64, len(widths)+1)
	colX[0] = x
	for i, cw := range widths {
		colX[i+1] = colX[i] + e.emu(cw)
	}
	rowH := e.emu(t.RowHeight())

	for r, row := range t.rows {
		for c, cell := range row {
			if cell.IsMergeContinuation() {
				continue
			}
			span := max(cell.gridSpan, 1)
			rows := max(cell.rowSpan, 1)
			cx := colX[c]
			cw := colX[min(c+span, len(widths))] - cx
			cy := y + float64(r)*rowH
			ch := float64(rows) * rowH

			header := t.firstRow && r == 0
			fill := svgTableBand2
			switch {
			case header:
				fill = svgAccent1
			case t.bandRow:
				band := r
				if t.firstRow {
					band--
				}
				if band%2 == 0 {
					fill = svgTableBand1
				}
			}
			if cell.fill != nil && cell.fill.Type == FillSolid {
				fill = cell.fill.Color.Hex()
			}
			fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n",
				px(cx), px(cy), px(cw), px(ch), fill)

			frame := textFrame{x: cx, y: cy, w: cw, h: ch, wrap: true, anchor: cell.anchor}
			if frame.anchor == TextAnchorNone {
				frame.anchor = TextAnchorTop
			}
			if header {
				frame.color, frame.bold = ColorWhite, true
			}
			e.drawText(cell.paragraphs, frame)
		}
	}
}
