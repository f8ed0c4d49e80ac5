package layout

import (
	"image"
	"image/color"
)

// Measurer 负责按字体测量文本，结果单位为 mm。
type Measurer interface {
	Metrics(font FontSpec) (FontMetrics, error)
	TextWidth(s string, font FontSpec) (float64, error)
}

// ImageLoader 按名称加载内联图片与图片元素。
type ImageLoader interface {
	LoadImage(name string) (image.Image, error)
}

// Surface 是外部持有的绘制目标，所有渲染钩子共享同一个实例。
// Push/Pop 成对保存与恢复瞬时状态（抗锯齿、平移、绘图上下文）。
type Surface interface {
	Measurer

	Push()
	Pop()
	Translate(dx, dy float64)
	Antialias() bool
	SetAntialias(on bool)

	FillRect(r Rect, c color.Color)
	StrokeLine(x1, y1, x2, y2, width float64, c color.Color)
	DrawString(s string, x, baseline float64, font FontSpec, c color.Color) error
	DrawImage(img image.Image, r Rect)
}

// Options 配置排版阶段所需的依赖。
type Options struct {
	Measurer Measurer
	Images   ImageLoader
}
