package canvasrenderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/cardcraft/layout"
)

func TestSurfacePushPop(t *testing.T) {
	s := NewSurface(canvas.NewContext(canvas.New(20, 20)), NewFontBook(""), 10)
	assert.True(t, s.Antialias())

	s.Push()
	s.Translate(3, 4)
	s.SetAntialias(false)
	s.Push()
	s.Translate(1, 1)
	x, y := s.Origin()
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 5.0, y)
	s.Pop()
	x, y = s.Origin()
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
	assert.False(t, s.Antialias())
	s.Pop()
	x, y = s.Origin()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.True(t, s.Antialias())

	s.Pop() // 多余的 Pop 被忽略
	assert.True(t, s.Antialias())
}

func TestSurfaceSnap(t *testing.T) {
	s := &Surface{dpmm: 10}
	r := s.snap(layout.Rect{X: 0.04, Y: 0.06, W: 1.01, H: 1.0})
	assert.InDelta(t, 0.0, r.X, 1e-9)
	assert.InDelta(t, 0.1, r.Y, 1e-9)
	assert.InDelta(t, 1.1, r.W, 1e-9)
	assert.InDelta(t, 1.0, r.H, 1e-9)

	vector := &Surface{}
	in := layout.Rect{X: 0.04, Y: 0.06, W: 1.01, H: 1}
	assert.Equal(t, in, vector.snap(in))
}

func TestSurfaceDrawString(t *testing.T) {
	s := NewSurface(canvas.NewContext(canvas.New(20, 20)), NewFontBook(""), 0)
	assert.NoError(t, s.DrawString("ok", 1, 5, layout.FontSpec{Family: "Go", Size: 8}, blue))
	assert.Error(t, s.DrawString("ok", 1, 5, layout.FontSpec{Family: "Missing", Size: 8}, blue))
}

func TestSurfaceDrawImageFillsRect(t *testing.T) {
	c := canvas.New(20, 20)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	s := NewSurface(ctx, NewFontBook(""), 10)
	s.FillRect(layout.Rect{W: 20, H: 20}, white)

	img, err := NewImageLoader("", map[string][]byte{"wide": pngBlob(t, 20, 10, red)}).LoadImage("built-in:wide")
	require.NoError(t, err)
	s.Translate(1, 1)
	s.DrawImage(img, layout.Rect{X: 1, Y: 1, W: 10, H: 10}) // 2:1 的图片拉伸进正方形

	out := rasterizer.Draw(c, canvas.DPMM(10), canvas.DefaultColorSpace)
	assert.Equal(t, red, pixel(out, 25, 25))
	assert.Equal(t, red, pixel(out, 115, 115), "image reaches the bottom of the rect")
	assert.Equal(t, white, pixel(out, 125, 70))
	assert.Equal(t, white, pixel(out, 70, 125))
	assert.Equal(t, white, pixel(out, 15, 15))
}

func TestImageLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icon.png"), pngBlob(t, 4, 2, red), 0o644))

	l := NewImageLoader(dir, map[string][]byte{"dot": pngBlob(t, 1, 1, blue)})
	img, err := l.LoadImage("icon.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	// 命中缓存后不再读取文件
	require.NoError(t, os.Remove(filepath.Join(dir, "icon.png")))
	again, err := l.LoadImage("icon.png")
	require.NoError(t, err)
	assert.Same(t, img, again)

	dot, err := l.LoadImage("built-in:dot")
	require.NoError(t, err)
	assert.Equal(t, blue, pixel(dot, 0, 0))

	_, err = l.LoadImage("built-in:nope")
	assert.ErrorContains(t, err, "nope")
	_, err = l.LoadImage("   ")
	assert.Error(t, err)
	_, err = l.LoadImage("missing.png")
	assert.Error(t, err)
}

func TestImageLoaderWithoutBaseDir(t *testing.T) {
	l := NewImageLoader("", nil)
	_, err := l.LoadImage("art/a.png")
	assert.Error(t, err)
}

func TestImageLoaderRejectsGarbage(t *testing.T) {
	l := NewImageLoader("", map[string][]byte{"junk": []byte("not an image")})
	_, err := l.LoadImage("built-in:junk")
	assert.Error(t, err)
}
