package markup

import (
	"strings"

	"github.com/ByLCY/cardcraft/layout"
)

// TextRun 是一个普通文本单词。
type TextRun struct {
	Base
	glyphRun
	Text string
}

func newTextRun(s string) *TextRun {
	return &TextRun{Base: Base{name: "text", src: s}, Text: s}
}

func (t *TextRun) Process(st *layout.State) error {
	w, err := st.TextWidth(t.Text)
	if err != nil {
		return err
	}
	m := st.Metrics()
	st.Place(w, m.LineHeight, m.Ascent)
	t.capture(st)
	return nil
}

func (t *TextRun) Render(el *layout.Element, s layout.Surface) error {
	r := t.Bounds()
	return s.DrawString(t.Text, r.X, r.Y+t.ascent, t.font, t.color)
}

func (t *TextRun) String() string { return t.Text }

// SpaceRun 是单词之间的一段空白。
type SpaceRun struct {
	Base
	glyphRun
	Text string
}

func newSpaceRun(s string) *SpaceRun {
	return &SpaceRun{Base: Base{name: "space", src: s}, Text: s}
}

func (t *SpaceRun) Process(st *layout.State) error {
	w, err := st.TextWidth(strings.ReplaceAll(t.Text, "\t", "    "))
	if err != nil {
		return err
	}
	m := st.Metrics()
	st.PlaceSpace(w, m.LineHeight, m.Ascent)
	t.capture(st)
	return nil
}

func (t *SpaceRun) String() string { return t.Text }

// LineBreak 强制换行，对应 "<br>" 和文本中的换行符。
type LineBreak struct {
	Base
}

func newLineBreak(src string) *LineBreak {
	return &LineBreak{Base: Base{name: "br", src: src}}
}

func newBreak(args []string) (layout.Token, error) {
	return &LineBreak{Base: Base{name: "br"}}, nil
}

func (t *LineBreak) Process(st *layout.State) error {
	st.Mark()
	st.BreakLine()
	return nil
}

func (t *LineBreak) String() string {
	if t.src == "" {
		return "<br>"
	}
	return t.src
}
