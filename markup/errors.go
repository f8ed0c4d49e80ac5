package markup

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrorCode 对标记解析失败分类。
type ErrorCode string

const (
	ErrSyntax         ErrorCode = "SYNTAX"
	ErrUnknownTag     ErrorCode = "UNKNOWN_TAG"
	ErrBadArgument    ErrorCode = "BAD_ARGUMENT"
	ErrUnmatchedClose ErrorCode = "UNMATCHED_CLOSE"
	ErrNestedScope    ErrorCode = "NESTED_SCOPE"
)

// ErrParse 通过 errors.Is 匹配所有 *ParseError。
var ErrParse = errors.New("markup parse error")

// ParseError 报告无法构造为 token 的标签。整段文本随之失败，调用方回退为原样文本。
type ParseError struct {
	Code ErrorCode
	Tag  string
	Pos  lexer.Position
	Err  error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("[%s] 标签 <%s>，位置 %d:%d", e.Code, e.Tag, e.Pos.Line, e.Pos.Column)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is 匹配 ErrParse 以及错误码相同的 *ParseError。
func (e *ParseError) Is(target error) bool {
	if target == ErrParse {
		return true
	}
	var pe *ParseError
	if errors.As(target, &pe) {
		return pe.Code == e.Code
	}
	return false
}
