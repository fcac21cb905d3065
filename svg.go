package slidesmith

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// ProvenanceMark starts the text of the element every exported SVG carries.
const ProvenanceMark = "Created with " + Producer

// SVGOptions configures slide-to-SVG export.
type SVGOptions struct {
	// DPI is the number of SVG pixels per slide inch. Default: 96.
	DPI float64
	// EmbedFonts embeds the files of the fonts used as base64 @font-face rules.
	// Fonts that are not installed, or only exist inside a collection, are skipped.
	EmbedFonts bool
	// FontDirs specifies additional directories to search for TrueType/OpenType fonts.
	FontDirs []string
	// FontCache allows sharing a pre-configured FontCache across exports.
	// If nil, a new FontCache is created using FontDirs.
	FontCache *FontCache
	// OmitProvenance leaves out the provenance text element.
	OmitProvenance bool
}

// DefaultSVGOptions returns default export options.
func DefaultSVGOptions() *SVGOptions {
	return &SVGOptions{DPI: 96, EmbedFonts: true}
}

// SlideToSVG exports a single slide as an SVG 1.1 document.
func (p *Presentation) SlideToSVG(slideIndex int, opts *SVGOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteSlideSVG(&buf, slideIndex, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSlideSVG writes a single slide as an SVG 1.1 document to w.
func (p *Presentation) WriteSlideSVG(w io.Writer, slideIndex int, opts *SVGOptions) error {
	if slideIndex < 0 || slideIndex >= len(p.slides) {
		return fmt.Errorf("slide %d: %w", slideIndex, ErrOutOfRange)
	}
	if opts == nil {
		opts = DefaultSVGOptions()
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = 96
	}
	fc := opts.FontCache
	if fc == nil {
		fc = NewFontCache(opts.FontDirs...)
	}

	e := &svgExporter{
		pres:  p,
		scale: dpi / emuPerInch,
		fonts: fc,
		used:  make(map[svgFontUse]bool),
	}
	slide := p.slides[slideIndex]
	width := float64(p.layout.CX) * e.scale
	height := float64(p.layout.CY) * e.scale

	bg := "#FFFFFF"
	if slide.background != nil && slide.background.Type == FillSolid {
		bg = slide.background.Color.Hex()
	}
	fmt.Fprintf(&e.body, `<rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", px(width), px(height), bg)

	for _, shape := range slide.shapes {
		e.drawShape(shape)
	}

	if !opts.OmitProvenance {
		fmt.Fprintf(&e.body, `<text x="4" y="%s" font-family="Arial" font-size="8" fill="#A6A6A6">%s %s</text>`+"\n",
			px(height-4), xmlEscape(ProvenanceMark), xmlEscape(Version))
	}

	var out bytes.Buffer
	out.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n")
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.1" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		px(width), px(height), px(width), px(height))
	if opts.EmbedFonts {
		if css := e.fontFaceCSS(); css != "" {
			fmt.Fprintf(&out, "<defs>\n<style type=\"text/css\"><![CDATA[\n%s]]></style>\n</defs>\n", css)
		}
	}
	out.WriteString(e.body.String())
	out.WriteString("</svg>\n")

	_, err := w.Write(out.Bytes())
	return err
}

// svgFontUse records one font face referenced by the output.
type svgFontUse struct {
	name         string
	bold, italic bool
}

type svgExporter struct {
	pres  *Presentation
	scale float64 // SVG pixels per EMU
	fonts *FontCache
	used  map[svgFontUse]bool
	body  bytes.Buffer
}

// px formats a pixel value with at most two decimals.
func px(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func (e *svgExporter) emu(v int64) float64 { return float64(v) * e.scale }

// ptPx converts a size in points to SVG pixels.
func (e *svgExporter) ptPx(pt float64) float64 { return pt * emuPerPoint * e.scale }

func (e *svgExporter) drawShape(shape Shape) {
	b := shape.base()
	x, y := e.emu(b.offsetX), e.emu(b.offsetY)
	w, h := e.emu(b.width), e.emu(b.height)

	var transform string
	if b.rotation != 0 {
		transform = fmt.Sprintf(` transform="rotate(%d %s %s)"`, b.rotation, px(x+w/2), px(y+h/2))
	}
	fmt.Fprintf(&e.body, `<g id="shape-%d"%s>`+"\n", b.id, transform)

	switch s := shape.(type) {
	case *PlaceholderShape:
		e.drawBox(b)
		e.drawText(s.paragraphs, textFrame{x: x, y: y, w: w, h: h, wrap: s.wordWrap, anchor: s.textAnchor, ph: s.phType, isPlaceholder: true})
	case *RichTextShape:
		e.drawBox(b)
		e.drawText(s.paragraphs, textFrame{x: x, y: y, w: w, h: h, wrap: s.wordWrap, anchor: s.textAnchor})
	case *AutoShape:
		e.drawAutoShape(s, x, y, w, h)
	case *DrawingShape:
		e.drawPicture(s, x, y, w, h)
	case *TableShape:
		e.drawTable(s, x, y)
	case *ChartShape:
		e.drawChart(s, x, y, w, h)
	}
	e.body.WriteString("</g>\n")
}

// drawBox paints a text box's own fill and outline when it has any.
func (e *svgExporter) drawBox(b *BaseShape) {
	fill, stroke, sw := e.paint(b, "none", "none", 0)
	if fill == "none" && stroke == "none" {
		return
	}
	fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		px(e.emu(b.offsetX)), px(e.emu(b.offsetY)), px(e.emu(b.width)), px(e.emu(b.height)), fill, stroke, px(sw))
}

// paint resolves fill and stroke attributes for a shape. An unset fill or
// border falls back to the given defaults.
func (e *svgExporter) paint(b *BaseShape, defFill, defStroke string, defWidth float64) (fill, stroke string, width float64) {
	fill, stroke, width = defFill, defStroke, defWidth
	if b.fill != nil && b.fill.Type == FillSolid {
		fill = b.fill.Color.Hex()
	}
	if b.border != nil && b.border.Style != BorderNone {
		stroke = b.border.Color.Hex()
		width = math.Max(e.emu(b.border.Width), 0.5)
	}
	return fill, stroke, width
}

// textFrame is the box text is laid out in, plus what it inherits.
type textFrame struct {
	x, y, w, h    float64
	wrap          bool
	anchor        TextAnchorType
	ph            PlaceholderType
	isPlaceholder bool
	// defaults applied over inherited run properties
	color  Color
	bold   bool
	insetX int64 // EMU, zero means the bodyPr default
}

// Default bodyPr insets.
const (
	svgInsetX = 91440
	svgInsetY = 45720
)

type svgRun struct {
	text   string
	font   Font
	sizePx float64
	width  float64
}

type svgLine struct {
	runs   []svgRun
	width  float64
	size   float64 // largest run size in px
	indent float64
	align  HorizontalAlignment
	bullet *svgRun
}

func (f textFrame) defaultAlign() HorizontalAlignment {
	if f.ph == PlaceholderCtrTitle || f.ph == PlaceholderSubTitle {
		return HorizontalCenter
	}
	return HorizontalLeft
}

func (f textFrame) defaultAnchor() TextAnchorType {
	if f.anchor != TextAnchorNone {
		return f.anchor
	}
	switch f.ph {
	case PlaceholderTitle:
		return TextAnchorMiddle
	case PlaceholderCtrTitle:
		return TextAnchorBottom
	}
	return TextAnchorTop
}

// inheritsBullets reports whether unbulleted paragraphs get the master's body bullet.
func (f textFrame) inheritsBullets() bool {
	return f.isPlaceholder && (f.ph == PlaceholderBody || f.ph == PlaceholderObject)
}

// resolveFont fills the unset properties of a run font from the master styles.
func (e *svgExporter) resolveFont(src *Font, f textFrame, level int) Font {
	var out Font
	if src != nil {
		out = *src
	}
	if out.Size <= 0 {
		switch {
		case f.ph.IsTitle():
			out.Size = masterTitleSize
		case f.ph == PlaceholderSubTitle:
			out.Size = 24
		case f.ph == PlaceholderDate || f.ph == PlaceholderFooter || f.ph == PlaceholderSlideNum:
			out.Size = 12
		case f.isPlaceholder:
			out.Size = masterBodyLevelSize(level)
		default:
			out.Size = DefaultFontSize
		}
	}
	if out.Name == "" {
		out.Name = "Calibri"
		if f.ph.IsTitle() {
			out.Name = "Calibri Light"
		}
	}
	if out.Color.IsZero() {
		out.Color = ColorBlack
		if !f.color.IsZero() {
			out.Color = f.color
		}
	}
	if f.bold {
		out.Bold = true
	}
	return out
}

// measure returns the advance width of text in pixels. Without an installed
// font it scales the fixed 7x13 face.
func (e *svgExporter) measure(text string, f Font, sizePx float64) float64 {
	if face := e.fonts.MeasureFace(f.Name, sizePx, f.Bold, f.Italic); face != nil {
		return float64(font.MeasureString(face, text)) / 64
	}
	adv := basicfont.Face7x13.Advance
	return float64(utf8.RuneCountInString(text)*adv) * sizePx / 13
}

func (e *svgExporter) bulletFor(para *Paragraph, f textFrame, level, number int, ref Font) *svgRun {
	b := para.bullet
	if b == nil {
		if !f.inheritsBullets() {
			return nil
		}
		b = NewBullet()
	}
	var text string
	switch b.Type {
	case BulletTypeChar:
		text = b.Style
		if text == "" {
			text = "•"
		}
	case BulletTypeNumeric:
		text = formatAutoNumber(b.NumFormat, b.StartAt+number)
	default:
		return nil
	}
	bf := ref
	bf.Bold, bf.Italic, bf.Underline = false, false, UnderlineNone
	if b.Font != "" {
		bf.Name = b.Font
	}
	if b.Color != nil && !b.Color.IsZero() {
		bf.Color = *b.Color
	}
	size := e.ptPx(float64(ref.Size))
	if b.Size > 0 {
		size = size * float64(b.Size) / 100
	}
	return &svgRun{text: text, font: bf, sizePx: size, width: e.measure(text+" ", bf, size)}
}

// formatAutoNumber renders the label of an auto-numbered paragraph.
func formatAutoNumber(format string, n int) string {
	switch format {
	case "arabicParenR":
		return fmt.Sprintf("%d)", n)
	case "arabicParenBoth":
		return fmt.Sprintf("(%d)", n)
	case "alphaLcPeriod":
		return alphaLabel(n, 'a') + "."
	case "alphaUcPeriod":
		return alphaLabel(n, 'A') + "."
	case "alphaLcParenR":
		return alphaLabel(n, 'a') + ")"
	case "romanLcPeriod":
		return strings.ToLower(romanLabel(n)) + "."
	case "romanUcPeriod":
		return romanLabel(n) + "."
	}
	return fmt.Sprintf("%d.", n)
}

func alphaLabel(n int, base rune) string {
	if n < 1 {
		n = 1
	}
	var out []rune
	for n > 0 {
		n--
		out = append([]rune{base + rune(n%26)}, out...)
		n /= 26
	}
	return string(out)
}

func romanLabel(n int) string {
	vals := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syms := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}
	var sb strings.Builder
	for i, v := range vals {
		for n >= v {
			sb.WriteString(syms[i])
			n -= v
		}
	}
	return sb.String()
}

// layoutParagraphs breaks paragraphs into lines that fit maxWidth.
func (e *svgExporter) layoutParagraphs(paragraphs []*Paragraph, f textFrame, maxWidth float64) []svgLine {
	var lines []svgLine
	number := 0
	for _, para := range paragraphs {
		level := 0
		align := f.defaultAlign()
		if para.alignment != nil {
			level = para.alignment.Level
			// left is also the unset value, so it never overrides a centred placeholder
			if para.alignment.Horizontal != "" && (para.alignment.Horizontal != HorizontalLeft || f.defaultAlign() == HorizontalLeft) {
				align = para.alignment.Horizontal
			}
		}

		var runs []svgRun
		var breaks []int // run counts at which a line break occurs
		for _, elem := range para.elements {
			switch el := elem.(type) {
			case *TextRun:
				rf := e.resolveFont(el.font, f, level)
				runs = append(runs, svgRun{text: el.text, font: rf, sizePx: e.ptPx(float64(rf.Size))})
			case *BreakElement:
				breaks = append(breaks, len(runs))
			}
		}

		ref := e.resolveFont(nil, f, level)
		if len(runs) > 0 {
			ref = runs[0].font
		}
		hasText := false
		for _, r := range runs {
			if strings.TrimSpace(r.text) != "" {
				hasText = true
				break
			}
		}

		var indent float64
		var bullet *svgRun
		if hasText {
			if para.bullet != nil && para.bullet.Type == BulletTypeNumeric {
				number++
			} else {
				number = 0
			}
			bullet = e.bulletFor(para, f, level, max(number-1, 0), ref)
		}
		if f.inheritsBullets() {
			indent = e.emu(int64(level) * 400050)
		} else {
			indent = e.emu(int64(level) * 457200)
		}
		if bullet != nil {
			indent += bullet.width
		}

		segments := splitRunsAtBreaks(runs, breaks)
		for si, seg := range segments {
			wrapped := e.wrapRuns(seg, maxWidth-indent, f.wrap)
			if len(wrapped) == 0 {
				wrapped = [][]svgRun{nil}
			}
			for li, lr := range wrapped {
				line := svgLine{runs: lr, indent: indent, align: align, size: e.ptPx(float64(ref.Size))}
				if si == 0 && li == 0 {
					line.bullet = bullet
				}
				for _, r := range lr {
					line.width += r.width
					line.size = math.Max(line.size, r.sizePx)
				}
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func splitRunsAtBreaks(runs []svgRun, breaks []int) [][]svgRun {
	if len(breaks) == 0 {
		return [][]svgRun{runs}
	}
	var out [][]svgRun
	start := 0
	for _, b := range breaks {
		out = append(out, runs[start:b])
		start = b
	}
	return append(out, runs[start:])
}

// wrapRuns splits styled runs into lines of at most maxWidth pixels,
// breaking between words. A word wider than the line gets a line of its own.
func (e *svgExporter) wrapRuns(runs []svgRun, maxWidth float64, wrap bool) [][]svgRun {
	type word struct {
		run   svgRun
		space bool // preceded by whitespace
	}
	var words []word
	for _, r := range runs {
		parts := strings.Split(r.text, " ")
		for i, part := range parts {
			if part == "" {
				continue
			}
			words = append(words, word{run: svgRun{text: part, font: r.font, sizePx: r.sizePx}, space: i > 0 || strings.HasPrefix(r.text, " ")})
		}
	}

	var lines [][]svgRun
	var cur []svgRun
	var curWidth float64
	for _, w := range words {
		text := w.run.text
		if len(cur) > 0 && w.space {
			text = " " + text
		}
		width := e.measure(text, w.run.font, w.run.sizePx)
		if wrap && len(cur) > 0 && curWidth+width > maxWidth {
			lines = append(lines, cur)
			cur, curWidth = nil, 0
			text = w.run.text
			width = e.measure(text, w.run.font, w.run.sizePx)
		}
		// merge into the previous run when the style is unchanged
		if n := len(cur); n > 0 && cur[n-1].font == w.run.font && cur[n-1].sizePx == w.run.sizePx {
			cur[n-1].text += text
			cur[n-1].width += width
		} else {
			cur = append(cur, svgRun{text: text, font: w.run.font, sizePx: w.run.sizePx, width: width})
		}
		curWidth += width
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// drawText lays out paragraphs inside the frame and emits one <text> per line.
func (e *svgExporter) drawText(paragraphs []*Paragraph, f textFrame) {
	insetX := e.emu(svgInsetX)
	if f.insetX > 0 {
		insetX = e.emu(f.insetX)
	}
	insetY := e.emu(svgInsetY)
	maxWidth := f.w - 2*insetX
	lines := e.layoutParagraphs(paragraphs, f, maxWidth)
	if len(lines) == 0 {
		return
	}

	const lineSpacing = 1.2
	var total float64
	for _, l := range lines {
		total += l.size * lineSpacing
	}
	y := f.y + insetY
	switch f.defaultAnchor() {
	case TextAnchorMiddle:
		y = f.y + (f.h-total)/2
	case TextAnchorBottom:
		y = f.y + f.h - insetY - total
	}

	for _, l := range lines {
		baseline := y + l.size*0.9
		y += l.size * lineSpacing
		if len(l.runs) == 0 && l.bullet == nil {
			continue
		}
		left := f.x + insetX + l.indent
		avail := maxWidth - l.indent
		x := left
		switch l.align {
		case HorizontalCenter:
			x = left + (avail-l.width)/2
		case HorizontalRight:
			x = left + avail - l.width
		}
		if l.bullet != nil {
			e.writeTextRun(*l.bullet, x-l.bullet.width, baseline)
		}
		for _, r := range l.runs {
			e.writeTextRun(r, x, baseline)
			x += r.width
		}
	}
}

func (e *svgExporter) writeTextRun(r svgRun, x, baseline float64) {
	if r.text == "" {
		return
	}
	e.used[svgFontUse{name: r.font.Name, bold: r.font.Bold, italic: r.font.Italic}] = true
	var attrs strings.Builder
	fmt.Fprintf(&attrs, ` font-family="%s" font-size="%s" fill="%s"`, xmlEscape(r.font.Name), px(r.sizePx), r.font.Color.Hex())
	if r.font.Bold {
		attrs.WriteString(` font-weight="bold"`)
	}
	if r.font.Italic {
		attrs.WriteString(` font-style="italic"`)
	}
	if r.font.Underline != "" && r.font.Underline != UnderlineNone {
		attrs.WriteString(` text-decoration="underline"`)
	}
	fmt.Fprintf(&e.body, `<text x="%s" y="%s" xml:space="preserve"%s>%s</text>`+"\n",
		px(x), px(baseline), attrs.String(), xmlEscape(r.text))
}

// fontFaceCSS returns @font-face rules for every used font the cache can embed.
func (e *svgExporter) fontFaceCSS() string {
	uses := make([]svgFontUse, 0, len(e.used))
	for u := range e.used {
		uses = append(uses, u)
	}
	sort.Slice(uses, func(i, j int) bool {
		a, b := uses[i], uses[j]
		if a.name != b.name {
			return a.name < b.name
		}
		if a.bold != b.bold {
			return !a.bold
		}
		return !a.italic && b.italic
	})

	var sb strings.Builder
	for _, u := range uses {
		data, format, ok := e.fonts.FontData(u.name, u.bold, u.italic)
		if !ok {
			continue
		}
		mime := "font/ttf"
		if format == "opentype" {
			mime = "font/otf"
		}
		weight, style := "normal", "normal"
		if u.bold {
			weight = "bold"
		}
		if u.italic {
			style = "italic"
		}
		fmt.Fprintf(&sb, "@font-face { font-family: \"%s\"; font-weight: %s; font-style: %s; src: url(\"data:%s;base64,%s\") format(\"%s\"); }\n",
			u.name, weight, style, mime, base64.StdEncoding.EncodeToString(data), format)
	}
	return sb.String()
}
