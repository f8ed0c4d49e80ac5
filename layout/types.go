package layout

import (
	"fmt"
	"image/color"
	"strings"
)

// 该文件定义排版引擎与渲染器共用的几何与样式类型。

// Rect 是元素局部坐标系中的矩形（单位：mm，原点为元素左上角）。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Empty 报告矩形是否没有面积。
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Translate 返回平移后的矩形。
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Align 为行内水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// MarshalText 让调试 JSON 输出可读的对齐名称。
func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAlign 接受 left/center/right 以及 start/end 别名。
func ParseAlign(v string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "left", "start":
		return AlignLeft, nil
	case "center", "centre", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("未知的对齐方式：%s", v)
	}
}

// VAlign 为文本块在元素内的垂直对齐方式。
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
	VAlignBottom
)

func (v VAlign) String() string {
	switch v {
	case VAlignMiddle:
		return "middle"
	case VAlignBottom:
		return "bottom"
	default:
		return "top"
	}
}

func (v VAlign) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// ParseVAlign 接受 top/middle/bottom。
func ParseVAlign(v string) (VAlign, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "top":
		return VAlignTop, nil
	case "middle", "center", "centre":
		return VAlignMiddle, nil
	case "bottom":
		return VAlignBottom, nil
	default:
		return VAlignTop, fmt.Errorf("未知的垂直对齐方式：%s", v)
	}
}

// FontSpec 描述一次文本测量或绘制所用的字体；Size 以 pt 为单位。
type FontSpec struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
}

// Style 返回 regular/bold/italic/bolditalic。
func (f FontSpec) Style() string {
	switch {
	case f.Bold && f.Italic:
		return "bolditalic"
	case f.Bold:
		return "bold"
	case f.Italic:
		return "italic"
	default:
		return "regular"
	}
}

// WithStyle 按 regular/bold/italic/bolditalic 设置粗体与斜体。
func (f FontSpec) WithStyle(style string) (FontSpec, error) {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "regular", "normal":
		f.Bold, f.Italic = false, false
	case "bold":
		f.Bold, f.Italic = true, false
	case "italic":
		f.Bold, f.Italic = false, true
	case "bolditalic", "bold-italic":
		f.Bold, f.Italic = true, true
	default:
		return f, fmt.Errorf("未知的字体样式：%s", style)
	}
	return f, nil
}

func (f FontSpec) String() string {
	return fmt.Sprintf("%s %gpt %s", f.Family, f.Size, f.Style())
}

// FontMetrics 以 mm 表示的字体度量。
type FontMetrics struct {
	Ascent     float64 `json:"ascent"`
	Descent    float64 `json:"descent"`
	LineHeight float64 `json:"lineHeight"`
}

// Element 是被渲染的卡牌元素，核心只读不写。
// 坐标为卡牌坐标（mm），文本排版在元素局部坐标中进行。
type Element struct {
	Name        string     `json:"name"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	Font        FontSpec   `json:"font"`
	Color       color.RGBA `json:"color"`
	Align       Align      `json:"align"`
	VAlign      VAlign     `json:"valign"`
	LineSpacing float64    `json:"lineSpacing,omitempty"` // 行距倍数，<=0 时按 1 处理
}

// Line 记录排版后的一行：包含的标记下标、行顶、行高与内容宽度。
type Line struct {
	Tokens []int   `json:"tokens"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Align  Align   `json:"align"`
}
