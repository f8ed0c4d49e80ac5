package project

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// LegacyNamespace 是旧版本项目文件根元素上的默认命名空间声明，严格解码不接受它。
const LegacyNamespace = ` xmlns="http://tempuri.org/ProjectSchema.xsd"`

// ErrFormat 表示项目文件不符合当前格式。
var ErrFormat = errors.New("invalid project file")

// Decode 严格解码项目 XML：未知元素、未知属性与非法数值都会报错。
func Decode(data []byte) (*Project, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrFormat)
	}
	if root.Space != "" || root.Tag != "Project" {
		return nil, fmt.Errorf("%w: root element is <%s>, want <Project>", ErrFormat, root.FullTag())
	}

	a := newAttrs(root)
	p := &Project{Version: a.str("Version")}
	if err := a.done(); err != nil {
		return nil, err
	}
	if p.Version == "" {
		p.Version = CurrentVersion
	}
	for _, child := range root.ChildElements() {
		if child.Space != "" || child.Tag != "Layout" {
			return nil, unexpected(root, child)
		}
		l, err := decodeLayout(child)
		if err != nil {
			return nil, err
		}
		p.Layouts = append(p.Layouts, l)
	}
	return p, nil
}

func decodeLayout(e *etree.Element) (*Layout, error) {
	a := newAttrs(e)
	l := &Layout{
		Name:       a.str("Name"),
		Width:      a.float("Width", 0),
		Height:     a.float("Height", 0),
		DPI:        a.float("DPI", 300),
		Background: a.str("Background"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}
	for _, child := range e.ChildElements() {
		switch {
		case child.Space == "" && child.Tag == "Element":
			el, err := decodeElement(child)
			if err != nil {
				return nil, err
			}
			l.Elements = append(l.Elements, el)
		case child.Space == "" && child.Tag == "Reference":
			a := newAttrs(child)
			r := &Reference{RelativePath: a.str("RelativePath"), Default: a.bool("Default", false)}
			if err := a.done(); err != nil {
				return nil, err
			}
			l.References = append(l.References, r)
		default:
			return nil, unexpected(e, child)
		}
	}
	return l, nil
}

func decodeElement(e *etree.Element) (*Element, error) {
	a := newAttrs(e)
	el := &Element{
		Name:        a.str("Name"),
		Enabled:     a.bool("Enabled", true),
		X:           a.float("X", 0),
		Y:           a.float("Y", 0),
		Width:       a.float("Width", 0),
		Height:      a.float("Height", 0),
		Font:        a.str("Font"),
		FontSize:    a.float("FontSize", 0),
		FontStyle:   a.str("FontStyle"),
		Color:       a.str("Color"),
		Align:       a.str("Align"),
		VAlign:      a.str("VAlign"),
		LineSpacing: a.float("LineSpacing", 0),
		Fill:        a.str("Fill"),
		Stroke:      a.str("Stroke"),
		StrokeWidth: a.float("StrokeWidth", 0),
		Radius:      a.float("Radius", 0),
		Value:       e.Text(),
	}
	typ := a.str("Type")
	if err := a.done(); err != nil {
		return nil, err
	}
	if len(e.ChildElements()) > 0 {
		return nil, unexpected(e, e.ChildElements()[0])
	}
	t, err := ParseElementType(typ)
	if err != nil {
		return nil, fmt.Errorf("%w: element %q: %v", ErrFormat, el.Name, err)
	}
	el.Type = t
	return el, nil
}

func unexpected(parent, child *etree.Element) error {
	return fmt.Errorf("%w: unexpected <%s> in <%s>", ErrFormat, child.FullTag(), parent.FullTag())
}

// attrs 读取一个元素的属性并记录已使用的键，最后用 done 拒绝多余属性。
type attrs struct {
	el   *etree.Element
	seen map[string]bool
	err  error
}

func newAttrs(el *etree.Element) *attrs {
	return &attrs{el: el, seen: map[string]bool{}}
}

func (a *attrs) str(key string) string {
	a.seen[key] = true
	return a.el.SelectAttrValue(key, "")
}

func (a *attrs) float(key string, def float64) float64 {
	v := strings.TrimSpace(a.str(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil && a.err == nil {
		a.err = fmt.Errorf("%w: <%s> attribute %s=%q is not a number", ErrFormat, a.el.Tag, key, v)
	}
	return f
}

func (a *attrs) bool(key string, def bool) bool {
	v := strings.TrimSpace(a.str(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil && a.err == nil {
		a.err = fmt.Errorf("%w: <%s> attribute %s=%q is not a boolean", ErrFormat, a.el.Tag, key, v)
	}
	return b
}

func (a *attrs) done() error {
	if a.err != nil {
		return a.err
	}
	for _, attr := range a.el.Attr {
		if attr.Space != "" || !a.seen[attr.Key] {
			return fmt.Errorf("%w: unknown attribute %s on <%s>", ErrFormat, attr.FullKey(), a.el.Tag)
		}
	}
	return nil
}

// StripLegacyNamespace 去掉旧版本写入的默认命名空间声明。
func StripLegacyNamespace(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte(LegacyNamespace), nil)
}

// Encode 按当前格式序列化项目，带 utf-8 XML 声明并缩进两个空格。
func Encode(p *Project) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("Project")
	version := p.Version
	if version == "" {
		version = CurrentVersion
	}
	root.CreateAttr("Version", version)

	for _, l := range p.Layouts {
		le := root.CreateElement("Layout")
		le.CreateAttr("Name", l.Name)
		setFloat(le, "Width", l.Width)
		setFloat(le, "Height", l.Height)
		setFloat(le, "DPI", l.DPI)
		setStr(le, "Background", l.Background)

		for _, el := range l.Elements {
			if el.Type == "" {
				return nil, fmt.Errorf("element %q in layout %q has no type", el.Name, l.Name)
			}
			ee := le.CreateElement("Element")
			ee.CreateAttr("Name", el.Name)
			ee.CreateAttr("Type", string(el.Type))
			if !el.Enabled {
				ee.CreateAttr("Enabled", "false")
			}
			setFloat(ee, "X", el.X)
			setFloat(ee, "Y", el.Y)
			setFloat(ee, "Width", el.Width)
			setFloat(ee, "Height", el.Height)
			setStr(ee, "Font", el.Font)
			setFloat(ee, "FontSize", el.FontSize)
			setStr(ee, "FontStyle", el.FontStyle)
			setStr(ee, "Color", el.Color)
			setStr(ee, "Align", el.Align)
			setStr(ee, "VAlign", el.VAlign)
			setFloat(ee, "LineSpacing", el.LineSpacing)
			setStr(ee, "Fill", el.Fill)
			setStr(ee, "Stroke", el.Stroke)
			setFloat(ee, "StrokeWidth", el.StrokeWidth)
			setFloat(ee, "Radius", el.Radius)
			if el.Value != "" {
				ee.SetText(el.Value)
			}
		}
		for _, r := range l.References {
			re := le.CreateElement("Reference")
			re.CreateAttr("RelativePath", r.RelativePath)
			if r.Default {
				re.CreateAttr("Default", "true")
			}
		}
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

func setStr(e *etree.Element, key, v string) {
	if v != "" {
		e.CreateAttr(key, v)
	}
}

func setFloat(e *etree.Element, key string, v float64) {
	if v != 0 {
		e.CreateAttr(key, strconv.FormatFloat(v, 'f', -1, 64))
	}
}
