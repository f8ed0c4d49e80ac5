package layout

import (
	"fmt"
	"image/color"
	"math"
)

// epsilon 吸收浮点测量误差，避免刚好填满一行的单词被折到下一行。
const epsilon = 1e-6

// run 是当前行中已放置的一段内容，坐标在换行定稿时才写回标记。
type run struct {
	index  int
	x      float64
	width  float64
	height float64
	ascent float64
	space  bool
}

// State 是一个文本块排版期间累积的状态，只由排版引擎持有。
// 标记的 Process 钩子可以修改字体、颜色、对齐、缩进与光标，但不能绘制。
type State struct {
	Element *Element
	Images  ImageLoader

	Font   FontSpec
	Color  color.RGBA
	Align  Align
	Indent float64 // 折行后的新行从该缩进开始

	// X 为当前行光标，Y 为当前行顶部，均为元素局部坐标。
	X float64
	Y float64

	measurer Measurer
	metrics  FontMetrics
	tokens   []Token
	index    int

	runs       []run
	lineStart  float64
	hasContent bool
	lines      []Line
}

func newState(el *Element, tokens []Token, opts Options) (*State, error) {
	st := &State{
		Element:  el,
		Images:   opts.Images,
		Color:    el.Color,
		Align:    el.Align,
		measurer: opts.Measurer,
		tokens:   tokens,
	}
	if err := st.SetFont(el.Font); err != nil {
		return nil, err
	}
	return st, nil
}

// Index 返回当前正在处理的标记下标。
func (st *State) Index() int { return st.index }

// Metrics 返回当前字体的度量。
func (st *State) Metrics() FontMetrics { return st.metrics }

// SetFont 切换当前字体并刷新度量。
func (st *State) SetFont(f FontSpec) error {
	if f.Size <= 0 {
		return fmt.Errorf("字号必须为正数：%g", f.Size)
	}
	m, err := st.measurer.Metrics(f)
	if err != nil {
		return fmt.Errorf("读取字体 %s 度量失败: %w", f, err)
	}
	st.Font = f
	st.metrics = m
	return nil
}

// TextWidth 以当前字体测量文本宽度。
func (st *State) TextWidth(s string) (float64, error) {
	return st.measurer.TextWidth(s, st.Font)
}

// Usable 返回元素内可用的行宽。
func (st *State) Usable() float64 { return st.Element.Width }

// LineEmpty 报告当前行是否还没有可见内容。
func (st *State) LineEmpty() bool { return !st.hasContent }

// Place 把当前标记作为一段内容放入当前行；放不下且当前行非空时先折行。
func (st *State) Place(width, height, ascent float64) {
	if st.hasContent && st.X+width > st.Usable()+epsilon {
		st.BreakLine()
	}
	st.push(run{width: width, height: height, ascent: ascent})
	st.hasContent = true
}

// PlaceSpace 放置空白；行首空白与导致溢出的空白宽度折叠为 0。
func (st *State) PlaceSpace(width, height, ascent float64) {
	switch {
	case !st.hasContent:
		width = 0
	case st.X+width > st.Usable()+epsilon:
		st.BreakLine()
		width = 0
	}
	st.push(run{width: width, height: height, ascent: ascent, space: true})
}

// Mark 在光标处放置一个零尺寸的位置记录，供标签标记获得坐标。
func (st *State) Mark() {
	st.push(run{space: true})
}

// SetIndent 设置后续行的缩进；当前行尚无内容时光标也移到缩进处。
func (st *State) SetIndent(v float64) {
	st.Indent = v
	if !st.hasContent {
		st.X = v
		st.lineStart = v
	}
}

// Advance 水平移动光标但不放置内容。
func (st *State) Advance(dx float64) { st.X += dx }

func (st *State) push(r run) {
	r.index = st.index
	r.x = st.X
	st.runs = append(st.runs, r)
	st.X += r.width
}

// BreakLine 定稿当前行：计算行高、基线与对齐偏移，并把矩形写回每个标记。
func (st *State) BreakLine() {
	ascent, descent := 0.0, 0.0
	right := st.lineStart
	for _, r := range st.runs {
		if r.height <= 0 {
			continue
		}
		ascent = math.Max(ascent, r.ascent)
		descent = math.Max(descent, r.height-r.ascent)
		if !r.space {
			right = math.Max(right, r.x+r.width)
		}
	}
	if ascent+descent <= 0 {
		ascent = st.metrics.Ascent
		descent = st.metrics.LineHeight - st.metrics.Ascent
	}
	height := ascent + descent
	width := right - st.lineStart

	offset := st.alignOffset(right)

	line := Line{Top: st.Y, Height: height, Width: width, Align: st.Align}
	for _, r := range st.runs {
		y := st.Y + ascent - r.ascent
		if r.height <= 0 {
			y = st.Y + ascent
		}
		st.tokens[r.index].SetBounds(Rect{X: r.x + offset, Y: y, W: r.width, H: r.height})
		if n := len(line.Tokens); n == 0 || line.Tokens[n-1] != r.index {
			line.Tokens = append(line.Tokens, r.index)
		}
	}
	st.lines = append(st.lines, line)

	spacing := st.Element.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	st.Y += height * spacing
	st.X = st.Indent
	st.lineStart = st.Indent
	st.runs = st.runs[:0]
	st.hasContent = false
}

// alignOffset 返回右边界为 right 的行按当前对齐方式需要的水平偏移。
func (st *State) alignOffset(right float64) float64 {
	free := st.Usable() - right
	if free <= 0 {
		return 0
	}
	switch st.Align {
	case AlignCenter:
		return free / 2
	case AlignRight:
		return free
	}
	return 0
}

// finish 定稿剩余内容。只剩位置记录时不再新增空行，记录落在当前光标处，
// 并与 BreakLine 一样按对齐方式偏移。
func (st *State) finish() {
	if len(st.runs) == 0 {
		return
	}
	if !st.hasContent && len(st.lines) > 0 {
		offset := st.alignOffset(st.lineStart)
		for _, r := range st.runs {
			st.tokens[r.index].SetBounds(Rect{X: r.x + offset, Y: st.Y})
		}
		st.runs = st.runs[:0]
		return
	}
	st.BreakLine()
}
