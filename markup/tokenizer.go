package markup

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/cardcraft/layout"
)

// Tokenize 把元素文本切分为有序的 token 序列。普通文本成为单词、空白与换行 token，
// 标签通过 reg 构造。
//
// 结束标签在这里一次性与开标签配对："</name>" 关闭最内层同名作用域，别名按规范名比较；
// "<close>" 与 "</>" 关闭最内层作用域。到文本末尾仍未关闭的作用域延续到末尾。
// 同名作用域已打开时再次打开会报错。
func Tokenize(raw string, reg *Registry) ([]layout.Token, error) {
	if reg == nil {
		return nil, fmt.Errorf("markup: 标签集为空")
	}
	items, err := lexItems(norm.NFC.String(raw))
	if err != nil {
		return nil, &ParseError{Code: ErrSyntax, Err: err}
	}

	var (
		tokens []layout.Token
		open   []Scoped
	)
	for _, it := range items {
		switch {
		case it.Word != nil:
			tokens = appendWord(tokens, *it.Word)
		case it.Space != nil:
			tokens = append(tokens, newSpaceRun(*it.Space))
		case it.Newline != nil:
			tokens = append(tokens, newLineBreak(*it.Newline))
		case it.Tag != nil:
			src := *it.Tag
			name, args, closing := splitTag(src)
			if closing || name == "close" {
				idx := openerIndex(open, reg.Canonical(name), closing && name != "")
				if idx < 0 {
					return nil, &ParseError{Code: ErrUnmatchedClose, Tag: strings.Trim(src, "<>"), Pos: it.Pos}
				}
				opener := open[idx]
				open = append(open[:idx], open[idx+1:]...)
				c := &CloseTag{Base: Base{name: "close", src: src}, opener: opener}
				opener.bind(c)
				tokens = append(tokens, c)
				continue
			}

			ctor, ok := reg.Lookup(name)
			if !ok {
				return nil, &ParseError{Code: ErrUnknownTag, Tag: name, Pos: it.Pos}
			}
			tok, err := ctor(args)
			if err != nil {
				return nil, &ParseError{Code: ErrBadArgument, Tag: name, Pos: it.Pos, Err: err}
			}
			canonical := reg.Canonical(name)
			if b, ok := tok.(based); ok {
				b.base().name = canonical
				b.base().src = src
			}
			if sc, ok := tok.(Scoped); ok {
				if openerIndex(open, canonical, true) >= 0 {
					return nil, &ParseError{Code: ErrNestedScope, Tag: name, Pos: it.Pos,
						Err: fmt.Errorf("<%s> 已经打开", canonical)}
				}
				open = append(open, sc)
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// Plain 把 raw 当作普通文本切分，标签原样保留为单词。
// 标记解析或布局失败时用它回退。
func Plain(raw string) []layout.Token {
	items, err := lexItems(norm.NFC.String(raw))
	if err != nil {
		return []layout.Token{newTextRun(raw)}
	}
	var tokens []layout.Token
	for _, it := range items {
		switch {
		case it.Word != nil:
			tokens = appendWord(tokens, *it.Word)
		case it.Tag != nil:
			tokens = appendWord(tokens, *it.Tag)
		case it.Space != nil:
			tokens = append(tokens, newSpaceRun(*it.Space))
		case it.Newline != nil:
			tokens = append(tokens, newLineBreak(*it.Newline))
		}
	}
	return tokens
}

// appendWord 合并相邻的单词片段（"a<b" 会被词法分析为三段）。
func appendWord(tokens []layout.Token, w string) []layout.Token {
	if n := len(tokens); n > 0 {
		if prev, ok := tokens[n-1].(*TextRun); ok {
			prev.Text += w
			prev.src = prev.Text
			return tokens
		}
	}
	return append(tokens, newTextRun(w))
}

// splitTag 解析 "<name:a;b>"、"<name>" 与 "</name>"；"</>" 的 name 为空。
func splitTag(src string) (name string, args []string, closing bool) {
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(src, "<"), ">"))
	if strings.HasPrefix(body, "/") {
		return strings.ToLower(strings.TrimSpace(body[1:])), nil, true
	}
	name, rest, hasArgs := strings.Cut(body, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if !hasArgs {
		return name, nil, false
	}
	for _, a := range strings.Split(rest, ";") {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args, false
}

// openerIndex 查找最内层打开的作用域；byName 为真时只找规范名为 name 的。
func openerIndex(open []Scoped, name string, byName bool) int {
	for i := len(open) - 1; i >= 0; i-- {
		if !byName || open[i].Name() == name {
			return i
		}
	}
	return -1
}
