package canvasrenderer

import (
	"image"
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/cardcraft/layout"
)

type surfaceState struct {
	ox, oy    float64
	antialias bool
}

// Surface 把 layout.Surface 的绘制调用落到 canvas.Context 上。
// 坐标为左上角原点的 mm（CartesianIV），平移由 Surface 自己累计。
// canvas 没有抗锯齿开关：关闭抗锯齿时填充矩形会对齐到设备像素网格。
type Surface struct {
	ctx  *canvas.Context
	book *FontBook
	dpmm float64 // 设备像素/mm，<=0 时不做像素对齐

	surfaceState
	stack []surfaceState
}

var _ layout.Surface = (*Surface)(nil)

// NewSurface wraps ctx. dpmm is the output resolution used for pixel snapping.
func NewSurface(ctx *canvas.Context, book *FontBook, dpmm float64) *Surface {
	return &Surface{
		ctx:          ctx,
		book:         book,
		dpmm:         dpmm,
		surfaceState: surfaceState{antialias: true},
	}
}

func (s *Surface) Metrics(f layout.FontSpec) (layout.FontMetrics, error) { return s.book.Metrics(f) }

func (s *Surface) TextWidth(str string, f layout.FontSpec) (float64, error) {
	return s.book.TextWidth(str, f)
}

func (s *Surface) Push() {
	s.ctx.Push()
	s.stack = append(s.stack, s.surfaceState)
}

func (s *Surface) Pop() {
	n := len(s.stack)
	if n == 0 {
		return
	}
	s.ctx.Pop()
	s.surfaceState = s.stack[n-1]
	s.stack = s.stack[:n-1]
}

func (s *Surface) Translate(dx, dy float64) {
	s.ox += dx
	s.oy += dy
}

func (s *Surface) Antialias() bool      { return s.antialias }
func (s *Surface) SetAntialias(on bool) { s.antialias = on }

// Origin 返回当前平移量（mm）。
func (s *Surface) Origin() (float64, float64) { return s.ox, s.oy }

func (s *Surface) FillRect(r layout.Rect, c color.Color) {
	r = r.Translate(s.ox, s.oy)
	if !s.antialias {
		r = s.snap(r)
	}
	if r.Empty() {
		return
	}
	s.ctx.SetFillColor(c)
	s.ctx.SetStrokeColor(canvas.Transparent)
	s.ctx.DrawPath(r.X, r.Y, canvas.Rectangle(r.W, r.H))
}

// snap 将矩形的四条边对齐到最近的设备像素边界。
func (s *Surface) snap(r layout.Rect) layout.Rect {
	if s.dpmm <= 0 {
		return r
	}
	round := func(v float64) float64 { return math.Round(v*s.dpmm) / s.dpmm }
	x0, y0 := round(r.X), round(r.Y)
	x1, y1 := round(r.Right()), round(r.Bottom())
	return layout.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (s *Surface) StrokeLine(x1, y1, x2, y2, width float64, c color.Color) {
	if width <= 0 {
		return
	}
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(x2-x1, y2-y1)
	s.ctx.SetFillColor(canvas.Transparent)
	s.ctx.SetStrokeColor(c)
	s.ctx.SetStrokeWidth(width)
	s.ctx.DrawPath(x1+s.ox, y1+s.oy, p)
}

func (s *Surface) DrawString(str string, x, baseline float64, f layout.FontSpec, c color.Color) error {
	text, err := s.book.TextLine(str, f, c)
	if err != nil {
		return err
	}
	s.ctx.DrawText(x+s.ox, baseline+s.oy, text)
	return nil
}

// DrawImage 将图片拉伸到 r 绘制，宽高分别缩放；保持比例由调用方决定 r。
func (s *Surface) DrawImage(img image.Image, r layout.Rect) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || r.Empty() {
		return
	}
	r = r.Translate(s.ox, s.oy)
	s.ctx.FitImage(img, canvas.Rect{X0: r.X, Y0: r.Y, X1: r.Right(), Y1: r.Bottom()}, canvas.ImageFill)
}
