package layout

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ByLCY/cardcraft/binding"
	"github.com/ByLCY/cardcraft/project"
)

const (
	defaultFontFamily = "Go"
	defaultFontSize   = 10.0 // pt
	defaultDPI        = 300.0
)

// BuildOptions 配置卡牌规划的默认值。
type BuildOptions struct {
	FontFamily string  // 元素未指定字体时使用
	FontSize   float64 // pt，元素未指定字号时使用
}

// ElementPlan 是一个已绑定数据、已解析样式的待绘制元素。
type ElementPlan struct {
	Kind    project.ElementType
	Element Element

	// Text 为 FormattedText/Text 的最终文本，Image 为 Graphic 的图片路径。
	Text  string
	Image string

	// Shape 的填充与描边；颜色为零值表示不绘制。
	Fill        color.RGBA
	Stroke      color.RGBA
	StrokeWidth float64
	Radius      float64
}

// Card 是一张卡牌的绘制计划，坐标单位为 mm。
type Card struct {
	Layout     string
	Index      int
	Width      float64
	Height     float64
	DPI        float64
	Background color.RGBA
	Elements   []ElementPlan
}

// BuildCard 将版式与一行数据合成为一张卡牌的绘制计划。
// 数据行中与元素同名的列覆盖元素的默认内容，随后对内容做 ${column} 插值。
// 未启用的元素被跳过。row 可以为 nil，此时使用各元素的默认内容。
func BuildCard(l *project.Layout, row map[string]any, index int, opts BuildOptions) (*Card, error) {
	if l == nil {
		return nil, fmt.Errorf("版式为空")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("版式 %s 的尺寸无效：%gx%g", l.Name, l.Width, l.Height)
	}
	if opts.FontFamily == "" {
		opts.FontFamily = defaultFontFamily
	}
	if opts.FontSize <= 0 {
		opts.FontSize = defaultFontSize
	}

	card := &Card{
		Layout: l.Name,
		Index:  index,
		Width:  l.Width,
		Height: l.Height,
		DPI:    l.DPI,
	}
	if card.DPI <= 0 {
		card.DPI = defaultDPI
	}
	bg, err := resolveColor(l.Background, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	if err != nil {
		return nil, fmt.Errorf("版式 %s 背景色: %w", l.Name, err)
	}
	card.Background = bg

	for _, el := range l.Elements {
		if !el.Enabled {
			continue
		}
		plan, err := planElement(el, row, opts)
		if err != nil {
			return nil, fmt.Errorf("版式 %s 元素 %s: %w", l.Name, el.Name, err)
		}
		card.Elements = append(card.Elements, plan)
	}
	return card, nil
}

func planElement(el *project.Element, row map[string]any, opts BuildOptions) (ElementPlan, error) {
	plan := ElementPlan{Kind: el.Type}

	value := el.Value
	if v, ok := binding.Lookup(row, el.Name); ok {
		value = v
	}
	value = binding.Interpolate(value, row)

	geom, err := composeElement(el, opts)
	if err != nil {
		return plan, err
	}
	plan.Element = geom

	switch el.Type {
	case project.FormattedText, project.Text:
		plan.Text = value
	case project.Graphic:
		plan.Image = strings.TrimSpace(value)
	case project.Shape:
		if plan.Fill, err = resolveColor(el.Fill, color.RGBA{}); err != nil {
			return plan, fmt.Errorf("填充色: %w", err)
		}
		if plan.Stroke, err = resolveColor(el.Stroke, color.RGBA{}); err != nil {
			return plan, fmt.Errorf("描边色: %w", err)
		}
		plan.StrokeWidth = el.StrokeWidth
		plan.Radius = el.Radius
		if plan.Stroke.A > 0 && plan.StrokeWidth <= 0 {
			plan.StrokeWidth = 0.2
		}
	default:
		return plan, fmt.Errorf("未知的元素类型：%s", el.Type)
	}
	return plan, nil
}

// composeElement 解析元素的几何与默认文字样式。
func composeElement(el *project.Element, opts BuildOptions) (Element, error) {
	if el.Width < 0 || el.Height < 0 {
		return Element{}, fmt.Errorf("尺寸不能为负数：%gx%g", el.Width, el.Height)
	}
	font := FontSpec{Family: el.Font, Size: el.FontSize}
	if font.Family == "" {
		font.Family = opts.FontFamily
	}
	if font.Size <= 0 {
		font.Size = opts.FontSize
	}
	if el.FontStyle != "" {
		var err error
		if font, err = font.WithStyle(el.FontStyle); err != nil {
			return Element{}, err
		}
	}
	col, err := resolveColor(el.Color, color.RGBA{A: 0xff})
	if err != nil {
		return Element{}, fmt.Errorf("文字颜色: %w", err)
	}
	align, err := ParseAlign(el.Align)
	if err != nil {
		return Element{}, err
	}
	valign, err := ParseVAlign(el.VAlign)
	if err != nil {
		return Element{}, err
	}
	return Element{
		Name:        el.Name,
		X:           el.X,
		Y:           el.Y,
		Width:       el.Width,
		Height:      el.Height,
		Font:        font,
		Color:       col,
		Align:       align,
		VAlign:      valign,
		LineSpacing: el.LineSpacing,
	}, nil
}

func resolveColor(value string, def color.RGBA) (color.RGBA, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	return ParseColor(value)
}
