package markup

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/ByLCY/cardcraft/layout"
)

// Base 是所有 token 共有的状态：标签名、源文本，以及布局引擎写入的目标矩形。
// 默认钩子在布局时只记录位置，之后什么也不做。
type Base struct {
	name   string
	src    string
	bounds layout.Rect
}

func (b *Base) Kind() string            { return b.name }
func (b *Base) Bounds() layout.Rect     { return b.bounds }
func (b *Base) SetBounds(r layout.Rect) { b.bounds = r }
func (b *Base) base() *Base             { return b }

func (b *Base) Process(st *layout.State) error {
	st.Mark()
	return nil
}

func (b *Base) PostProcess(el *layout.Element, tokens []layout.Token, index int) error { return nil }

func (b *Base) Render(el *layout.Element, s layout.Surface) error { return nil }

type based interface {
	base() *Base
}

// Scoped 是作用到匹配的结束标签为止的标签。
type Scoped interface {
	layout.Token
	Name() string
	Close() *CloseTag
	// Exit 在处理匹配的结束标签时调用，撤销进入时的状态修改。
	Exit(st *layout.State) error
	bind(c *CloseTag)
}

// Scope 实现 Scoped 的记账部分。
type Scope struct {
	Base
	close *CloseTag
}

func (s *Scope) Name() string                { return s.name }
func (s *Scope) Close() *CloseTag            { return s.close }
func (s *Scope) bind(c *CloseTag)            { s.close = c }
func (s *Scope) Exit(st *layout.State) error { return nil }

// CloseTag 结束解析时与之配对的开标签的作用域。
type CloseTag struct {
	Base
	opener Scoped
}

// Opener 返回被关闭的开标签。
func (c *CloseTag) Opener() Scoped { return c.opener }

func (c *CloseTag) Process(st *layout.State) error {
	st.Mark()
	return c.opener.Exit(st)
}

func (c *CloseTag) String() string { return c.src }

// enclosed 收集 index 之后、end 之前各 token 的非空矩形。
// 按指针匹配 end；end 为 nil 时一直到文本末尾。
func enclosed(tokens []layout.Token, index int, end *CloseTag) []layout.Rect {
	var rects []layout.Rect
	for _, tok := range tokens[index+1:] {
		if end != nil && tok == layout.Token(end) {
			break
		}
		if r := tok.Bounds(); !r.Empty() {
			rects = append(rects, r)
		}
	}
	return rects
}

// glyphRun 记下文字排版时的样式，供绘制时使用。
type glyphRun struct {
	font   layout.FontSpec
	color  color.RGBA
	ascent float64
}

func (g *glyphRun) capture(st *layout.State) {
	g.font = st.Font
	g.color = st.Color
	g.ascent = st.Metrics().Ascent
}

// tagString 用生效的参数重新拼出标签。
func tagString(name string, args []string) string {
	if len(args) == 0 {
		return "<" + name + ">"
	}
	return "<" + name + ":" + strings.Join(args, ";") + ">"
}

// Constructor 由 ';' 分隔的参数构造 token。
type Constructor func(args []string) (layout.Token, error)

// Registry 把小写标签名映射到构造函数，别名映射到规范名。
// 构建完成后只读，可在并发的管线间共享。
type Registry struct {
	ctors   map[string]Constructor
	aliases map[string]string
}

// NewRegistry 返回空的标签集。
func NewRegistry() *Registry {
	return &Registry{ctors: map[string]Constructor{}, aliases: map[string]string{}}
}

func normName(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (r *Registry) claim(name string) error {
	if name == "" || name == "close" || strings.HasPrefix(name, "/") {
		return fmt.Errorf("标签名 %q 为保留名", name)
	}
	if _, ok := r.ctors[name]; ok {
		return fmt.Errorf("标签 %q 已注册", name)
	}
	if _, ok := r.aliases[name]; ok {
		return fmt.Errorf("标签 %q 已注册为别名", name)
	}
	return nil
}

// Register 注册标签。"close" 和以 '/' 开头的名字保留。
func (r *Registry) Register(name string, ctor Constructor) error {
	name = normName(name)
	if err := r.claim(name); err != nil {
		return err
	}
	if ctor == nil {
		return fmt.Errorf("标签 %q 缺少构造函数", name)
	}
	r.ctors[name] = ctor
	return nil
}

// RegisterAlias 让 alias 成为已注册标签 canonical 的另一个名字。
// 别名构造的 token 以规范名参与嵌套检查与按名关闭。
func (r *Registry) RegisterAlias(alias, canonical string) error {
	alias, canonical = normName(alias), normName(canonical)
	if err := r.claim(alias); err != nil {
		return err
	}
	if _, ok := r.ctors[canonical]; !ok {
		return fmt.Errorf("别名 %q 指向未注册的标签 %q", alias, canonical)
	}
	r.aliases[alias] = canonical
	return nil
}

// MustRegister 同 Register，出错时 panic。
func (r *Registry) MustRegister(name string, ctor Constructor) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// MustRegisterAlias 同 RegisterAlias，出错时 panic。
func (r *Registry) MustRegisterAlias(alias, canonical string) {
	if err := r.RegisterAlias(alias, canonical); err != nil {
		panic(err)
	}
}

// Canonical 返回 name 的规范名；非别名原样返回小写形式。
func (r *Registry) Canonical(name string) string {
	name = normName(name)
	if c, ok := r.aliases[name]; ok {
		return c
	}
	return name
}

// Lookup 返回 name 或其别名对应的构造函数。
func (r *Registry) Lookup(name string) (Constructor, bool) {
	ctor, ok := r.ctors[r.Canonical(name)]
	return ctor, ok
}

// Names 按字典序列出所有标签名，包括别名。
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ctors)+len(r.aliases))
	for name := range r.ctors {
		names = append(names, name)
	}
	for alias := range r.aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry 返回包含全部内置标签的标签集。
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("b", newBold)
	r.MustRegister("i", newItalic)
	r.MustRegister("u", newUnderline)
	r.MustRegister("s", newStrike)
	r.MustRegister("fc", newFontColor)
	r.MustRegister("bgcolor", newBackgroundColor)
	r.MustRegisterAlias("bgc", "bgcolor")
	r.MustRegister("font", newFont)
	r.MustRegister("fs", newFontSize)
	r.MustRegister("align", newAlign)
	r.MustRegister("bullet", newBullet)
	r.MustRegister("br", newBreak)
	r.MustRegister("spc", newSpace)
	r.MustRegister("img", newImage)
	return r
}
