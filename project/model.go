// Package project holds the card project model and its XML persistence.
package project

import (
	"fmt"
	"strings"
)

// CurrentVersion is written to the Version attribute of saved projects.
const CurrentVersion = "1"

// ElementType 决定元素如何被渲染。
type ElementType string

const (
	FormattedText ElementType = "FormattedText"
	Text          ElementType = "Text"
	Graphic       ElementType = "Graphic"
	Shape         ElementType = "Shape"
)

// ParseElementType 不区分大小写地解析元素类型。
func ParseElementType(v string) (ElementType, error) {
	for _, t := range []ElementType{FormattedText, Text, Graphic, Shape} {
		if strings.EqualFold(v, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown element type %q", v)
}

// Project 是项目文件的根：按顺序保存若干版式。
type Project struct {
	Version string
	Layouts []*Layout
}

// Layout 描述一种卡牌版式。尺寸单位为 mm。
type Layout struct {
	Name       string
	Width      float64
	Height     float64
	DPI        float64
	Background string

	Elements   []*Element
	References []*Reference
}

// Element 是版式中的一个元素。坐标与尺寸为卡牌坐标（mm），字号为 pt。
// Value 为默认内容：文本元素的文字，图片元素的路径；数据行中同名列会覆盖它。
type Element struct {
	Name    string
	Type    ElementType
	Enabled bool

	X, Y, Width, Height float64

	Font        string
	FontSize    float64
	FontStyle   string
	Color       string
	Align       string
	VAlign      string
	LineSpacing float64

	// 仅用于 Shape。
	Fill        string
	Stroke      string
	StrokeWidth float64
	Radius      float64

	Value string
}

// Reference 指向一份外部数据源，RelativePath 相对于项目文件所在目录，使用 '/' 分隔。
type Reference struct {
	RelativePath string
	Default      bool
}

// Default returns the project used when no project file exists yet.
func Default() *Project {
	return &Project{
		Version: CurrentVersion,
		Layouts: []*Layout{NewLayout("Default")},
	}
}

// NewLayout returns a poker-sized layout at 300 DPI.
func NewLayout(name string) *Layout {
	return &Layout{Name: name, Width: 63.5, Height: 88.9, DPI: 300, Background: "white"}
}

// Layout 按名称查找版式，名称不区分大小写；name 为空时返回第一个版式。
func (p *Project) Layout(name string) (*Layout, error) {
	if len(p.Layouts) == 0 {
		return nil, fmt.Errorf("project has no layouts")
	}
	if name == "" {
		return p.Layouts[0], nil
	}
	for _, l := range p.Layouts {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("layout %q not found", name)
}

// Element 按名称查找元素。
func (l *Layout) Element(name string) (*Element, bool) {
	for _, el := range l.Elements {
		if strings.EqualFold(el.Name, name) {
			return el, true
		}
	}
	return nil, false
}

// DefaultReference 返回标记为默认的数据源，没有标记时返回第一个。
func (l *Layout) DefaultReference() *Reference {
	for _, r := range l.References {
		if r.Default {
			return r
		}
	}
	if len(l.References) > 0 {
		return l.References[0]
	}
	return nil
}

// Clone returns a deep copy of p.
func (p *Project) Clone() *Project {
	out := &Project{Version: p.Version, Layouts: make([]*Layout, len(p.Layouts))}
	for i, l := range p.Layouts {
		cl := *l
		cl.Elements = make([]*Element, len(l.Elements))
		for j, el := range l.Elements {
			e := *el
			cl.Elements[j] = &e
		}
		cl.References = make([]*Reference, len(l.References))
		for j, r := range l.References {
			ref := *r
			cl.References[j] = &ref
		}
		out.Layouts[i] = &cl
	}
	return out
}
