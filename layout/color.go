package layout

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor 解析项目中的颜色字符串：
// CSS/X11 颜色名（如 red、DarkSlateGray）、#rgb、#rrggbb、#rrggbbaa 与 0xrrggbb[aa]。
func ParseColor(value string) (color.RGBA, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return color.RGBA{}, fmt.Errorf("颜色值为空")
	}
	lower := strings.ToLower(v)
	if c, ok := colornames.Map[lower]; ok {
		return c, nil
	}
	if lower == "transparent" {
		return color.RGBA{}, nil
	}

	hex := ""
	switch {
	case strings.HasPrefix(lower, "#"):
		hex = lower[1:]
	case strings.HasPrefix(lower, "0x"):
		hex = lower[2:]
	default:
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
	}
	return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

// FormatColor 输出 #rrggbb，非不透明时输出 #rrggbbaa，可被 ParseColor 读回。
func FormatColor(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
