package markup

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/ByLCY/cardcraft/layout"
)

// arg 返回第 i 个参数，省略时为空串。
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func colorArg(args []string, i int, what string) (color.RGBA, error) {
	v := arg(args, i)
	if v == "" {
		return color.RGBA{}, fmt.Errorf("缺少%s", what)
	}
	return layout.ParseColor(v)
}

// mmArg 解析以 mm 为单位的长度，不带单位的数字按 mm 计。
func mmArg(args []string, i int, def float64) (float64, error) {
	v := arg(args, i)
	if v == "" {
		return def, nil
	}
	l, err := layout.ParseLength(v)
	if err != nil {
		return 0, err
	}
	return l.MM(), nil
}

// ptArg 解析以 pt 为单位的字号，不带单位的数字按 pt 计。
func ptArg(args []string, i int, def float64) (float64, error) {
	v := arg(args, i)
	if v == "" {
		return def, nil
	}
	l, err := layout.ParseLength(v)
	if err != nil {
		return 0, err
	}
	return l.PT(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
