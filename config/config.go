// Package config loads cardcraft settings from built-in defaults, an optional
// cardcraft.toml and CARDCRAFT_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName 是默认在工作目录中查找的配置文件名。
const FileName = "cardcraft.toml"

// EnvPrefix 是环境变量前缀；CARDCRAFT_OUTPUT_DIR 对应 output.dir。
const EnvPrefix = "CARDCRAFT_"

type Config struct {
	Output OutputConfig `koanf:"output"`
	Render RenderConfig `koanf:"render"`
	Font   FontConfig   `koanf:"font"`
	Log    LogConfig    `koanf:"log"`
}

type OutputConfig struct {
	Dir    string  `koanf:"dir"`
	Format string  `koanf:"format"` // png | pdf
	DPI    float64 `koanf:"dpi"`    // 0 表示使用版式的 DPI
}

type RenderConfig struct {
	Jobs int `koanf:"jobs"`
}

type FontConfig struct {
	Family string  `koanf:"family"`
	Size   float64 `koanf:"size"` // pt
}

type LogConfig struct {
	Verbosity int `koanf:"verbosity"`
}

func defaults() map[string]any {
	return map[string]any{
		"output.dir":    "out",
		"output.format": "png",
		"output.dpi":    0.0,
		"render.jobs":   runtime.NumCPU(),
		"font.family":   "Go",
		"font.size":     10.0,
		"log.verbosity": 0,
	}
}

// Load 读取配置。path 为空时尝试工作目录下的 cardcraft.toml，不存在则跳过；
// 显式指定的 path 必须存在。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		// 仅第一个下划线分隔层级，output_dir → output.dir
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查取值范围并规范化格式名。
func (c *Config) Validate() error {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "png", "pdf":
	default:
		return fmt.Errorf("output.format 必须为 png 或 pdf：%q", c.Output.Format)
	}
	if c.Output.DPI < 0 {
		return fmt.Errorf("output.dpi 不能为负数：%g", c.Output.DPI)
	}
	if c.Render.Jobs < 1 {
		c.Render.Jobs = 1
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("font.size 必须为正数：%g", c.Font.Size)
	}
	return nil
}
