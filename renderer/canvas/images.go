package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/cardcraft/layout"
)

// ImageLoader 加载并缓存卡牌使用的图片。
// 名称为 built-in:<name> 时取注入的数据，否则视为相对 baseDir 的路径。
type ImageLoader struct {
	baseDir string
	blobs   map[string][]byte

	mu    sync.Mutex
	cache map[string]image.Image
}

var _ layout.ImageLoader = (*ImageLoader)(nil)

// NewImageLoader creates a loader rooted at baseDir with optional built-in images.
func NewImageLoader(baseDir string, blobs map[string][]byte) *ImageLoader {
	if blobs == nil {
		blobs = map[string][]byte{}
	}
	return &ImageLoader{baseDir: baseDir, blobs: blobs, cache: map[string]image.Image{}}
}

func (l *ImageLoader) LoadImage(name string) (image.Image, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("图片名称为空")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.cache[name]; ok {
		return img, nil
	}
	img, err := l.decode(name)
	if err != nil {
		return nil, err
	}
	l.cache[name] = img
	return img, nil
}

func (l *ImageLoader) decode(name string) (image.Image, error) {
	if strings.HasPrefix(name, "built-in:") || strings.HasPrefix(name, "builtin:") {
		key := strings.TrimPrefix(strings.TrimPrefix(name, "built-in:"), "builtin:")
		blob, ok := l.blobs[key]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", key)
		}
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", key, err)
		}
		return img, nil
	}

	path := filepath.FromSlash(name)
	if !filepath.IsAbs(path) {
		if l.baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in:）", name)
		}
		path = filepath.Join(l.baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", name, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", name, err)
	}
	return img, nil
}
