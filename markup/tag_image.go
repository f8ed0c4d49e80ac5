package markup

import (
	"fmt"
	"image"

	"github.com/ByLCY/cardcraft/layout"
)

// ImageTag 在基线上放置行内图片：<img:name;width;height>。
// 未给高度时与当前行等高，未给宽度时保持宽高比。
type ImageTag struct {
	Base
	Name          string
	Width, Height float64 // mm，省略时为 0

	img image.Image
	err error
}

func newImage(args []string) (layout.Token, error) {
	t := &ImageTag{Name: arg(args, 0)}
	if t.Name == "" {
		return nil, fmt.Errorf("缺少图片名")
	}
	var err error
	if t.Width, err = mmArg(args, 1, 0); err != nil {
		return nil, err
	}
	if t.Height, err = mmArg(args, 2, 0); err != nil {
		return nil, err
	}
	if t.Width < 0 || t.Height < 0 {
		return nil, fmt.Errorf("图片尺寸不能为负数")
	}
	return t, nil
}

// Process 不因图片缺失而失败：标签不占位，由 Render 报告加载错误，其余文本照常排版。
func (t *ImageTag) Process(st *layout.State) error {
	t.img, t.err = nil, nil
	if st.Images == nil {
		t.err = fmt.Errorf("没有可加载 %q 的图片加载器", t.Name)
		st.Mark()
		return nil
	}
	img, err := st.Images.LoadImage(t.Name)
	if err != nil {
		t.err = fmt.Errorf("加载图片 %q 失败: %w", t.Name, err)
		st.Mark()
		return nil
	}
	t.img = img

	w, h := t.size(img.Bounds(), st.Metrics().LineHeight)
	st.Place(w, h, h)
	return nil
}

func (t *ImageTag) size(b image.Rectangle, lineHeight float64) (float64, float64) {
	w, h := t.Width, t.Height
	aspect := 1.0
	if b.Dy() > 0 {
		aspect = float64(b.Dx()) / float64(b.Dy())
	}
	switch {
	case w > 0 && h > 0:
	case w > 0:
		h = w / aspect
	case h > 0:
		w = h * aspect
	default:
		h = lineHeight
		w = h * aspect
	}
	return w, h
}

func (t *ImageTag) Render(el *layout.Element, s layout.Surface) error {
	if t.err != nil {
		return t.err
	}
	r := t.Bounds()
	if t.img == nil || r.Empty() {
		return nil
	}
	s.DrawImage(t.img, r)
	return nil
}

func (t *ImageTag) Args() []string {
	args := []string{t.Name, "", ""}
	if t.Width > 0 {
		args[1] = formatFloat(t.Width)
	}
	if t.Height > 0 {
		args[2] = formatFloat(t.Height)
	}
	return args
}

func (t *ImageTag) String() string { return tagString(t.name, t.Args()) }
