package markup

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ByLCY/cardcraft/layout"
)

// Pipeline 把一个元素的标记文本变成绘制调用：切分、排版、后处理、渲染。
// Pipeline 不保存元素级状态，可在多个 goroutine 间共享。
type Pipeline struct {
	Registry *Registry
	Images   layout.ImageLoader

	log zerolog.Logger
}

// NewPipeline 返回管线，reg 为 nil 时使用 DefaultRegistry()。
func NewPipeline(reg *Registry, images layout.ImageLoader, log zerolog.Logger) *Pipeline {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Pipeline{Registry: reg, Images: images, log: log}
}

// Skip 记录一次失败并被跳过的后处理或渲染钩子。
type Skip struct {
	Index int
	Kind  string
	Phase string
	Err   error
}

// Result 是一个元素排版（以及绘制）的结果。
type Result struct {
	*layout.Result

	// Fallback 表示标记无法使用、文本按原样排版，此时 Err 保存切分或排版的错误。
	Fallback bool
	Err      error

	Rendered int
	Skips    []Skip
}

// Skipped 返回后处理与渲染阶段失败的钩子数。
func (r *Result) Skipped() int { return len(r.Skips) }

// Layout 切分 raw 并在 el 内排版。标记错误和排版中止会回退为原样文本，
// 只有回退也无法排版时才返回错误。
func (p *Pipeline) Layout(el *layout.Element, raw string, m layout.Measurer) (*Result, error) {
	opts := layout.Options{Measurer: m, Images: p.Images}

	tokens, err := Tokenize(raw, p.Registry)
	if err == nil {
		var res *layout.Result
		if res, err = layout.Run(el, tokens, opts); err == nil {
			return &Result{Result: res}, nil
		}
	}

	p.log.Warn().Err(err).Str("element", el.Name).Msg("markup rejected, using plain text")
	res, ferr := layout.Run(el, Plain(raw), opts)
	if ferr != nil {
		return nil, fmt.Errorf("排版 %q 失败: %w", el.Name, ferr)
	}
	return &Result{Result: res, Fallback: true, Err: err}, nil
}

// LayoutPlain 不解释标签，把 raw 当作普通文本排版。
func (p *Pipeline) LayoutPlain(el *layout.Element, raw string, m layout.Measurer) (*Result, error) {
	res, err := layout.Run(el, Plain(raw), layout.Options{Measurer: m, Images: p.Images})
	if err != nil {
		return nil, fmt.Errorf("排版 %q 失败: %w", el.Name, err)
	}
	return &Result{Result: res}, nil
}

// Draw 先对所有 token 执行后处理，再执行渲染。坐标为元素局部坐标：
// 调用期间 Surface 平移到元素原点，每个渲染钩子都在各自保存的状态中执行。
func (p *Pipeline) Draw(el *layout.Element, res *Result, s layout.Surface) {
	tokens := res.Tokens
	for i, tok := range tokens {
		if err := tok.PostProcess(el, tokens, i); err != nil {
			p.skip(el, res, i, tok, "post-process", err)
		}
	}

	s.Push()
	defer s.Pop()
	s.Translate(el.X, el.Y)
	for i, tok := range tokens {
		if err := renderToken(el, tok, s); err != nil {
			p.skip(el, res, i, tok, "render", err)
			continue
		}
		res.Rendered++
	}
}

// Render 先 Layout 再在 s 上 Draw。
func (p *Pipeline) Render(el *layout.Element, raw string, s layout.Surface) (*Result, error) {
	res, err := p.Layout(el, raw, s)
	if err != nil {
		return nil, err
	}
	p.Draw(el, res, s)
	return res, nil
}

func renderToken(el *layout.Element, tok layout.Token, s layout.Surface) error {
	s.Push()
	defer s.Pop()
	return tok.Render(el, s)
}

func (p *Pipeline) skip(el *layout.Element, res *Result, i int, tok layout.Token, phase string, err error) {
	res.Skips = append(res.Skips, Skip{Index: i, Kind: tok.Kind(), Phase: phase, Err: err})
	p.log.Warn().Err(err).
		Str("element", el.Name).
		Int("token", i).
		Str("kind", tok.Kind()).
		Str("phase", phase).
		Msg("render skip")
}
