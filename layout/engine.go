package layout

import (
	"errors"
	"fmt"
)

// Token 是标记序列中的一个单元（文本片段或标签）。
// 所有标记存放在同一个切片中，下标在整个流水线期间保持稳定：
// 排版阶段写入矩形，后处理与渲染阶段只读。
type Token interface {
	Kind() string
	Bounds() Rect
	SetBounds(r Rect)

	// Process 是排版钩子，按标记顺序调用，可以修改 State，不得绘制。
	Process(st *State) error
	// PostProcess 在排版完成后按顺序调用，可以读取之后标记的矩形。
	PostProcess(el *Element, tokens []Token, index int) error
	// Render 在后处理完成后按顺序调用，负责实际绘制。
	Render(el *Element, s Surface) error
}

// ErrLayoutAbort 表示某个排版钩子失败，整个文本块的排版被放弃。
var ErrLayoutAbort = errors.New("layout aborted")

// LayoutError 记录导致排版中止的标记。
type LayoutError struct {
	Index int
	Kind  string
	Err   error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("排版在第 %d 个标记（%s）处中止: %v", e.Index, e.Kind, e.Err)
}

func (e *LayoutError) Unwrap() []error { return []error{ErrLayoutAbort, e.Err} }

// Result 保存一个文本块的排版结果。
type Result struct {
	Tokens []Token `json:"-"`
	Lines  []Line  `json:"lines"`
	Height float64 `json:"height"`
}

// Run 依次调用每个标记的 Process，定稿最后一行，再按元素的垂直对齐整体偏移。
// 任一钩子失败都会中止整个文本块并返回 *LayoutError。
func Run(el *Element, tokens []Token, opts Options) (*Result, error) {
	if el == nil {
		return nil, fmt.Errorf("元素为空")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	st, err := newState(el, tokens, opts)
	if err != nil {
		return nil, &LayoutError{Index: -1, Kind: "element", Err: err}
	}

	for i, tok := range tokens {
		st.index = i
		tok.SetBounds(Rect{})
		if err := tok.Process(st); err != nil {
			return nil, &LayoutError{Index: i, Kind: tok.Kind(), Err: err}
		}
	}
	st.finish()

	height := 0.0
	if n := len(st.lines); n > 0 {
		last := st.lines[n-1]
		height = last.Top + last.Height
	}

	offset := 0.0
	if free := el.Height - height; free > 0 {
		switch el.VAlign {
		case VAlignMiddle:
			offset = free / 2
		case VAlignBottom:
			offset = free
		}
	}
	if offset != 0 {
		for i := range st.lines {
			st.lines[i].Top += offset
		}
		for _, tok := range tokens {
			tok.SetBounds(tok.Bounds().Translate(0, offset))
		}
	}

	return &Result{Tokens: tokens, Lines: st.lines, Height: height}, nil
}
