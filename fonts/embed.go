// Package fonts 提供无需外部文件即可使用的内置字体族。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10italic"
	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Style 是内置字体的字重/斜体组合。
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// StyleOf 由粗体、斜体标记得到 Style。
func StyleOf(bold, italic bool) Style {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

var builtin = map[string]map[Style][]byte{
	"go": {
		Regular:    goregular.TTF,
		Bold:       gobold.TTF,
		Italic:     goitalic.TTF,
		BoldItalic: gobolditalic.TTF,
	},
	"go mono": {
		Regular:    gomono.TTF,
		Bold:       gomonobold.TTF,
		Italic:     gomonoitalic.TTF,
		BoldItalic: gomonobolditalic.TTF,
	},
	"latin modern": {
		Regular:    lmroman10regular.TTF,
		Bold:       lmroman10bold.TTF,
		Italic:     lmroman10italic.TTF,
		BoldItalic: lmroman10bolditalic.TTF,
	},
	"latin modern sans": {
		Regular: lmsans10regular.TTF,
		Bold:    lmsans10bold.TTF,
		Italic:  lmsans10oblique.TTF,
	},
	"latin modern mono": {
		Regular: lmmono10regular.TTF,
		Italic:  lmmono10italic.TTF,
	},
}

// Families 返回全部内置字体族名称（小写，已排序）。
func Families() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has 报告 family 是否为内置字体族，名称不区分大小写。
func Has(family string) bool {
	_, ok := builtin[strings.ToLower(strings.TrimSpace(family))]
	return ok
}

// Load 返回内置字体的 TTF 数据。字体族缺少该样式时退回相近样式，最终退回常规，
// 第二个返回值报告是否为精确匹配。
func Load(family string, style Style) ([]byte, bool, error) {
	faces, ok := builtin[strings.ToLower(strings.TrimSpace(family))]
	if !ok {
		return nil, false, fmt.Errorf("没有内置字体 %q", family)
	}
	if data, ok := faces[style]; ok {
		return data, true, nil
	}
	fallback := []Style{Regular}
	if style == BoldItalic {
		fallback = []Style{Bold, Italic, Regular}
	}
	for _, s := range fallback {
		if data, ok := faces[s]; ok {
			return data, false, nil
		}
	}
	return nil, false, fmt.Errorf("内置字体 %q 缺少常规样式", family)
}
