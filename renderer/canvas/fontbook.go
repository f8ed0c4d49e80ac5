package canvasrenderer

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/cardcraft/fonts"
	"github.com/ByLCY/cardcraft/layout"
)

// FontBook resolves layout.FontSpec values to canvas font faces and measures
// text with them. Families come from the built-in fonts package or from font
// files under <baseDir>/fonts. A FontBook is safe for concurrent use.
type FontBook struct {
	baseDir string

	mu       sync.Mutex
	families map[string]*canvas.FontFamily // family|style
	extra    map[string][]byte             // 注册的字体数据，family|style
}

var _ layout.Measurer = (*FontBook)(nil)

// NewFontBook creates a font book that also looks for font files in baseDir/fonts.
func NewFontBook(baseDir string) *FontBook {
	return &FontBook{
		baseDir:  baseDir,
		families: map[string]*canvas.FontFamily{},
		extra:    map[string][]byte{},
	}
}

// Register 注册一份字体数据，优先于内置字体与字体目录。
func (b *FontBook) Register(family string, style fonts.Style, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := fontKey(family, style)
	b.extra[key] = data
	delete(b.families, key)
}

func fontKey(family string, style fonts.Style) string {
	return fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(family)), style)
}

// Metrics 返回字体度量（mm）。
func (b *FontBook) Metrics(f layout.FontSpec) (layout.FontMetrics, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	face, err := b.faceLocked(f, canvas.Black)
	if err != nil {
		return layout.FontMetrics{}, err
	}
	m := face.Metrics()
	return layout.FontMetrics{Ascent: m.Ascent, Descent: m.Descent, LineHeight: m.LineHeight}, nil
}

// TextWidth 测量文本宽度（mm）。
func (b *FontBook) TextWidth(s string, f layout.FontSpec) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	face, err := b.faceLocked(f, canvas.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(s), nil
}

// TextLine 以给定颜色排出一行文本，供 Surface 绘制。
func (b *FontBook) TextLine(s string, f layout.FontSpec, c color.Color) (*canvas.Text, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	face, err := b.faceLocked(f, c)
	if err != nil {
		return nil, err
	}
	return canvas.NewTextLine(face, s, canvas.Left), nil
}

func (b *FontBook) faceLocked(f layout.FontSpec, c color.Color) (*canvas.FontFace, error) {
	if f.Size <= 0 {
		return nil, fmt.Errorf("字号必须为正数：%g", f.Size)
	}
	style := fonts.StyleOf(f.Bold, f.Italic)
	family, err := b.familyLocked(f.Family, style)
	if err != nil {
		return nil, err
	}
	return family.Face(f.Size, c, canvasStyle(style), canvas.FontNormal), nil
}

func (b *FontBook) familyLocked(name string, style fonts.Style) (*canvas.FontFamily, error) {
	key := fontKey(name, style)
	if family, ok := b.families[key]; ok {
		return family, nil
	}
	data, err := b.loadLocked(name, style)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvasStyle(style)); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	b.families[key] = family
	return family, nil
}

// loadLocked 依次查找：注册的数据、字体目录中的文件、内置字体。
func (b *FontBook) loadLocked(name string, style fonts.Style) ([]byte, error) {
	if data, ok := b.extra[fontKey(name, style)]; ok {
		return data, nil
	}
	if data, ok := b.extra[fontKey(name, fonts.Regular)]; ok {
		return data, nil
	}
	if b.baseDir != "" {
		data, err := b.readFontFile(name, style)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if fonts.Has(name) {
		data, _, err := fonts.Load(name, style)
		return data, err
	}
	return nil, fmt.Errorf("找不到字体 %q", name)
}

var styleSuffix = map[fonts.Style][]string{
	fonts.Regular:    {"", "-Regular"},
	fonts.Bold:       {"-Bold"},
	fonts.Italic:     {"-Italic"},
	fonts.BoldItalic: {"-BoldItalic"},
}

// readFontFile 在 baseDir/fonts 中查找 <Family><后缀>.ttf/.otf，缺少样式文件时退回常规。
func (b *FontBook) readFontFile(name string, style fonts.Style) ([]byte, error) {
	dir := filepath.Join(b.baseDir, "fonts")
	candidates := styleSuffix[style]
	if style != fonts.Regular {
		candidates = append(append([]string{}, candidates...), styleSuffix[fonts.Regular]...)
	}
	for _, suffix := range candidates {
		for _, ext := range []string{".ttf", ".otf"} {
			data, err := os.ReadFile(filepath.Join(dir, name+suffix+ext))
			if err == nil {
				return data, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}
	return nil, fs.ErrNotExist
}

func canvasStyle(s fonts.Style) canvas.FontStyle {
	switch s {
	case fonts.Bold:
		return canvas.FontBold
	case fonts.Italic:
		return canvas.FontRegular | canvas.FontItalic
	case fonts.BoldItalic:
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}
