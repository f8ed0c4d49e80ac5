package markup

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	markupLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Tag", Pattern: `<[^<>\r\n]*>`},
		{Name: "Newline", Pattern: `\r\n|\r|\n`},
		{Name: "Space", Pattern: `[ \t\f\v]+`},
		{Name: "Word", Pattern: `[^\s<]+|<`},
	})

	textParser = participle.MustBuild[textBlock](
		participle.Lexer(markupLexer),
	)
)

// textBlock 是一个元素文本的扁平条目流。语法不构造树，作用域由 Tokenize 配对。
type textBlock struct {
	Items []*textItem `parser:"@@*"`
}

type textItem struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Tag     *string        `parser:"  @Tag"`
	Newline *string        `parser:"| @Newline"`
	Space   *string        `parser:"| @Space"`
	Word    *string        `parser:"| @Word"`
}

func lexItems(raw string) ([]*textItem, error) {
	if raw == "" {
		return nil, nil
	}
	block, err := textParser.ParseString("", raw)
	if err != nil {
		return nil, err
	}
	return block.Items, nil
}
