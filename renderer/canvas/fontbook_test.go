package canvasrenderer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/cardcraft/fonts"
	"github.com/ByLCY/cardcraft/layout"
)

func TestFontBookMetrics(t *testing.T) {
	book := NewFontBook("")
	m, err := book.Metrics(layout.FontSpec{Family: "Go", Size: 10})
	require.NoError(t, err)
	assert.Greater(t, m.Ascent, 0.0)
	assert.Greater(t, m.LineHeight, m.Ascent)

	big, err := book.Metrics(layout.FontSpec{Family: "go", Size: 20})
	require.NoError(t, err)
	assert.InDelta(t, 2*m.LineHeight, big.LineHeight, 1e-6)
}

func TestFontBookTextWidth(t *testing.T) {
	book := NewFontBook("")
	spec := layout.FontSpec{Family: "Latin Modern", Size: 12}
	one, err := book.TextWidth("a", spec)
	require.NoError(t, err)
	two, err := book.TextWidth("aa", spec)
	require.NoError(t, err)
	assert.Greater(t, one, 0.0)
	assert.InDelta(t, 2*one, two, 1e-6)

	spec.Bold = true
	bold, err := book.TextWidth("aa", spec)
	require.NoError(t, err)
	assert.NotEqual(t, two, bold)
}

func TestFontBookErrors(t *testing.T) {
	book := NewFontBook("")
	_, err := book.TextWidth("x", layout.FontSpec{Family: "Nope", Size: 10})
	assert.ErrorContains(t, err, "Nope")
	_, err = book.Metrics(layout.FontSpec{Family: "Go"})
	assert.Error(t, err)
}

func TestFontBookReadsProjectFonts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fonts", "House.ttf"), goregular.TTF, 0o644))

	book := NewFontBook(dir)
	house, err := book.TextWidth("card", layout.FontSpec{Family: "House", Size: 10})
	require.NoError(t, err)
	builtin, err := book.TextWidth("card", layout.FontSpec{Family: "Go", Size: 10})
	require.NoError(t, err)
	assert.InDelta(t, builtin, house, 1e-6)

	// 没有粗体文件时退回常规字体文件
	_, err = book.TextWidth("card", layout.FontSpec{Family: "House", Size: 10, Bold: true})
	assert.NoError(t, err)
}

func TestFontBookRegister(t *testing.T) {
	book := NewFontBook("")
	book.Register("Custom", fonts.Regular, goregular.TTF)
	_, err := book.Metrics(layout.FontSpec{Family: "custom", Size: 9, Italic: true})
	assert.NoError(t, err)
}

func TestFontBookConcurrent(t *testing.T) {
	book := NewFontBook("")
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := book.TextWidth("parallel", layout.FontSpec{Family: "Go", Size: float64(8 + i%3), Bold: i%2 == 0})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
