package markup

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ByLCY/cardcraft/layout"
)

// stubMeasurer 用固定度量代替真实字体：每个字符 5mm 宽，行高 10mm（10pt 时），随字号线性缩放。
type stubMeasurer struct {
	broken string // 该字体族的度量请求返回错误
}

func (m stubMeasurer) scale(f layout.FontSpec) float64 { return f.Size / 10 }

func (m stubMeasurer) Metrics(f layout.FontSpec) (layout.FontMetrics, error) {
	if m.broken != "" && f.Family == m.broken {
		return layout.FontMetrics{}, fmt.Errorf("font %q not found", f.Family)
	}
	k := m.scale(f)
	return layout.FontMetrics{Ascent: 8 * k, Descent: 2 * k, LineHeight: 10 * k}, nil
}

func (m stubMeasurer) TextWidth(s string, f layout.FontSpec) (float64, error) {
	if m.broken != "" && f.Family == m.broken {
		return 0, fmt.Errorf("font %q not found", f.Family)
	}
	return float64(utf8.RuneCountInString(s)) * 5 * m.scale(f), nil
}

type fillOp struct {
	Rect      layout.Rect
	Color     color.RGBA
	Antialias bool
}

type lineOp struct {
	X1, Y1, X2, Y2, Width float64
}

type textOp struct {
	Text        string
	X, Baseline float64
	Font        layout.FontSpec
}

type surfaceState struct {
	dx, dy    float64
	antialias bool
}

// recordingSurface 记录绘制调用，坐标已换算为 Surface 的绝对坐标。
type recordingSurface struct {
	stubMeasurer
	surfaceState
	stack []surfaceState

	fills  []fillOp
	lines  []lineOp
	texts  []textOp
	images []layout.Rect
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{surfaceState: surfaceState{antialias: true}}
}

func (s *recordingSurface) Push() { s.stack = append(s.stack, s.surfaceState) }

func (s *recordingSurface) Pop() {
	n := len(s.stack)
	s.surfaceState = s.stack[n-1]
	s.stack = s.stack[:n-1]
}

func (s *recordingSurface) Translate(dx, dy float64) { s.dx += dx; s.dy += dy }
func (s *recordingSurface) Antialias() bool          { return s.antialias }
func (s *recordingSurface) SetAntialias(on bool)     { s.antialias = on }

func (s *recordingSurface) FillRect(r layout.Rect, c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	s.fills = append(s.fills, fillOp{Rect: r.Translate(s.dx, s.dy), Color: rgba, Antialias: s.antialias})
}

func (s *recordingSurface) StrokeLine(x1, y1, x2, y2, width float64, c color.Color) {
	s.lines = append(s.lines, lineOp{x1 + s.dx, y1 + s.dy, x2 + s.dx, y2 + s.dy, width})
}

func (s *recordingSurface) DrawString(text string, x, baseline float64, f layout.FontSpec, c color.Color) error {
	s.texts = append(s.texts, textOp{Text: text, X: x + s.dx, Baseline: baseline + s.dy, Font: f})
	return nil
}

func (s *recordingSurface) DrawImage(img image.Image, r layout.Rect) {
	s.images = append(s.images, r.Translate(s.dx, s.dy))
}

// stubImages 只认识 names 中的图片，尺寸为 20x10 像素。
type stubImages map[string]bool

func (m stubImages) LoadImage(name string) (image.Image, error) {
	if !m[name] {
		return nil, errors.New("no such image")
	}
	return image.NewRGBA(image.Rect(0, 0, 20, 10)), nil
}

func testElement() *layout.Element {
	return &layout.Element{
		Name:   "Body",
		Width:  100,
		Height: 20,
		Font:   layout.FontSpec{Family: "Go", Size: 10},
		Color:  color.RGBA{A: 0xff},
	}
}

func testPipeline() *Pipeline {
	return NewPipeline(nil, stubImages{"icon": true}, zerolog.Nop())
}
