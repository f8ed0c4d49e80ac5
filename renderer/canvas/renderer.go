package canvasrenderer

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/cardcraft/layout"
	"github.com/ByLCY/cardcraft/markup"
	"github.com/ByLCY/cardcraft/project"
	"github.com/ByLCY/cardcraft/renderer"
)

const mmPerInch = 25.4

// Format 是输出格式。
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat 解析 png/pdf，不区分大小写，空串为 png。
func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "png":
		return FormatPNG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("未知的输出格式：%s", v)
	}
}

// Ext 返回带点的文件扩展名。
func (f Format) Ext() string { return "." + string(f) }

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Format  Format
	DPI     float64           // >0 时覆盖版式的 DPI，仅影响 PNG
	Images  map[string][]byte // built-in images accessible via built-in:<name>
	Fonts   *FontBook         // nil 时按 BaseDir 新建
	Markup  *markup.Registry  // nil 时使用默认标签集
	Log     zerolog.Logger

	// Creator 写入 PDF 文档信息。
	Creator string
}

// Renderer draws card plans via github.com/tdewolff/canvas.
// Fonts and images are shared across cards; everything else is per call, so
// Render may be called from several goroutines.
type Renderer struct {
	opts     Options
	fonts    *FontBook
	images   *ImageLoader
	pipeline *markup.Pipeline
	log      zerolog.Logger
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a canvas-based renderer rooted at opts.BaseDir for resolving assets.
func NewRenderer(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	book := opts.Fonts
	if book == nil {
		book = NewFontBook(opts.BaseDir)
	}
	images := NewImageLoader(opts.BaseDir, opts.Images)
	return &Renderer{
		opts:     opts,
		fonts:    book,
		images:   images,
		pipeline: markup.NewPipeline(opts.Markup, images, opts.Log),
		log:      opts.Log,
	}
}

// Fonts 返回渲染器使用的字体簿，可作为 layout.Measurer。
func (r *Renderer) Fonts() *FontBook { return r.fonts }

// Images 返回渲染器使用的图片加载器。
func (r *Renderer) Images() *ImageLoader { return r.images }

// Pipeline 返回格式化文本管线。
func (r *Renderer) Pipeline() *markup.Pipeline { return r.pipeline }

// Render renders one card in the configured format.
func (r *Renderer) Render(card *layout.Card) ([]byte, error) {
	if card == nil {
		return nil, fmt.Errorf("卡牌为空")
	}
	switch r.opts.Format {
	case FormatPDF:
		return r.RenderDocument([]*layout.Card{card})
	case FormatPNG:
		return r.renderPNG(card)
	default:
		return nil, fmt.Errorf("未知的输出格式：%s", r.opts.Format)
	}
}

func (r *Renderer) dpi(card *layout.Card) float64 {
	if r.opts.DPI > 0 {
		return r.opts.DPI
	}
	return card.DPI
}

func (r *Renderer) renderPNG(card *layout.Card) ([]byte, error) {
	dpmm := r.dpi(card) / mmPerInch
	if dpmm <= 0 {
		return nil, fmt.Errorf("卡牌 %s#%d 的 DPI 无效", card.Layout, card.Index)
	}
	c := canvas.New(card.Width, card.Height)
	if err := r.Draw(canvas.NewContext(c), card, dpmm); err != nil {
		return nil, err
	}
	img := rasterizer.Draw(c, canvas.DPMM(dpmm), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderDocument renders cards into one PDF, one page per card.
func (r *Renderer) RenderDocument(cards []*layout.Card) ([]byte, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("缺少可渲染的卡牌")
	}
	var buf bytes.Buffer
	writer := pdf.New(&buf, cards[0].Width, cards[0].Height, nil)
	writer.SetInfo(cards[0].Layout, "", "", "", r.opts.Creator)
	for i, card := range cards {
		if i > 0 {
			writer.NewPage(card.Width, card.Height)
		}
		c := canvas.New(card.Width, card.Height)
		if err := r.Draw(canvas.NewContext(c), card, 0); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderAll renders cards concurrently, at most jobs at a time, and hands each
// result to emit. emit may be called from several goroutines. The first error
// cancels the remaining cards.
func (r *Renderer) RenderAll(ctx context.Context, cards []*layout.Card, jobs int, emit func(*layout.Card, []byte) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for _, card := range cards {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := r.Render(card)
			if err != nil {
				return fmt.Errorf("渲染卡牌 %s#%d: %w", card.Layout, card.Index, err)
			}
			return emit(card, data)
		})
	}
	return g.Wait()
}

// Draw 在 ctx 上绘制整张卡牌。dpmm 为输出分辨率，用于关闭抗锯齿时的像素对齐，0 表示矢量输出。
func (r *Renderer) Draw(ctx *canvas.Context, card *layout.Card, dpmm float64) error {
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	s := NewSurface(ctx, r.fonts, dpmm)
	s.FillRect(layout.Rect{W: card.Width, H: card.Height}, card.Background)

	for i := range card.Elements {
		plan := &card.Elements[i]
		if err := r.drawElement(ctx, s, plan); err != nil {
			return fmt.Errorf("元素 %s: %w", plan.Element.Name, err)
		}
	}
	return nil
}

func (r *Renderer) drawElement(ctx *canvas.Context, s *Surface, plan *layout.ElementPlan) error {
	el := &plan.Element
	switch plan.Kind {
	case project.Shape:
		drawShape(ctx, plan)
	case project.Graphic:
		r.drawGraphic(s, plan)
	case project.FormattedText:
		res, err := r.pipeline.Render(el, plan.Text, s)
		if err != nil {
			return err
		}
		r.logResult(el, res)
	case project.Text:
		res, err := r.pipeline.LayoutPlain(el, plan.Text, s)
		if err != nil {
			return err
		}
		r.pipeline.Draw(el, res, s)
		r.logResult(el, res)
	default:
		return fmt.Errorf("不支持的元素类型：%s", plan.Kind)
	}
	return nil
}

func (r *Renderer) logResult(el *layout.Element, res *markup.Result) {
	ev := r.log.Debug()
	if res.Fallback || res.Skipped() > 0 {
		ev = r.log.Info()
	}
	ev.Str("element", el.Name).
		Int("tokens", len(res.Tokens)).
		Int("lines", len(res.Lines)).
		Int("rendered", res.Rendered).
		Int("skipped", res.Skipped()).
		Bool("fallback", res.Fallback).
		Msg("text element drawn")
}

func drawShape(ctx *canvas.Context, plan *layout.ElementPlan) {
	el := plan.Element
	if el.Width <= 0 || el.Height <= 0 {
		return
	}
	ctx.Push()
	defer ctx.Pop()
	ctx.SetFillColor(visible(plan.Fill))
	if plan.Stroke.A > 0 && plan.StrokeWidth > 0 {
		ctx.SetStrokeColor(plan.Stroke)
		ctx.SetStrokeWidth(plan.StrokeWidth)
	} else {
		ctx.SetStrokeColor(canvas.Transparent)
	}
	path := canvas.Rectangle(el.Width, el.Height)
	if plan.Radius > 0 {
		path = canvas.RoundedRectangle(el.Width, el.Height, plan.Radius)
	}
	ctx.DrawPath(el.X, el.Y, path)
}

func visible(c color.RGBA) color.Color {
	if c.A == 0 {
		return canvas.Transparent
	}
	return c
}

// drawGraphic 按比例缩放图片并在元素框内居中；加载失败只记录日志。
func (r *Renderer) drawGraphic(s *Surface, plan *layout.ElementPlan) {
	el := plan.Element
	img, err := r.images.LoadImage(plan.Image)
	if err != nil {
		r.log.Warn().Err(err).Str("element", el.Name).Msg("graphic skipped")
		return
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || el.Width <= 0 || el.Height <= 0 {
		return
	}
	scale := min(el.Width/float64(b.Dx()), el.Height/float64(b.Dy()))
	w, h := float64(b.Dx())*scale, float64(b.Dy())*scale
	s.DrawImage(img, layout.Rect{
		X: el.X + (el.Width-w)/2,
		Y: el.Y + (el.Height-h)/2,
		W: w,
		H: h,
	})
}
