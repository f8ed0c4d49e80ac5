package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/ByLCY/cardcraft/layout"
	"github.com/ByLCY/cardcraft/logging"
	"github.com/ByLCY/cardcraft/project"
	canvasrenderer "github.com/ByLCY/cardcraft/renderer/canvas"
)

type renderFlags struct {
	layout string
	out    string
	format string
	dpi    float64
	jobs   int
}

func (a *app) newRenderCommand() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <project>",
		Short: "Render every card of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.render(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "已生成 %d 张卡牌：%s\n", n, a.outDir(f))
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "only render this layout")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output directory (overrides output.dir)")
	cmd.Flags().StringVar(&f.format, "format", "", "png or pdf (overrides output.format)")
	cmd.Flags().Float64Var(&f.dpi, "dpi", 0, "raster resolution (overrides output.dpi and the layout DPI)")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "cards rendered in parallel (overrides render.jobs)")
	return cmd
}

func (a *app) outDir(f renderFlags) string {
	if f.out != "" {
		return f.out
	}
	return a.cfg.Output.Dir
}

// render 渲染项目中的卡牌并返回写出的卡牌数量。
func (a *app) render(ctx context.Context, projectPath string, f renderFlags) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logging.GetLogger("render")

	p, err := project.Read(projectPath, log)
	if err != nil {
		return 0, err
	}
	layouts := p.Layouts
	if f.layout != "" {
		l, err := p.Layout(f.layout)
		if err != nil {
			return 0, err
		}
		layouts = []*project.Layout{l}
	}

	formatName := a.cfg.Output.Format
	if f.format != "" {
		formatName = f.format
	}
	format, err := canvasrenderer.ParseFormat(formatName)
	if err != nil {
		return 0, err
	}
	dpi := a.cfg.Output.DPI
	if f.dpi > 0 {
		dpi = f.dpi
	}
	jobs := a.cfg.Render.Jobs
	if f.jobs > 0 {
		jobs = f.jobs
	}
	outDir := a.outDir(f)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("创建输出目录失败: %w", err)
	}

	dir := filepath.Dir(projectPath)
	r := canvasrenderer.NewRenderer(canvasrenderer.Options{
		BaseDir: dir,
		Format:  format,
		DPI:     dpi,
		Log:     logging.GetLogger("canvas"),
		Creator: "cardcraft",
	})

	var written atomic.Int64
	for _, l := range layouts {
		cards, err := a.buildCards(dir, l)
		if err != nil {
			return int(written.Load()), err
		}
		log.Info().Str("layout", l.Name).Int("cards", len(cards)).Str("format", string(format)).Msg("rendering layout")

		if format == canvasrenderer.FormatPDF {
			data, err := r.RenderDocument(cards)
			if err != nil {
				return int(written.Load()), fmt.Errorf("版式 %s: %w", l.Name, err)
			}
			if err := os.WriteFile(filepath.Join(outDir, fileStem(l.Name)+format.Ext()), data, 0o644); err != nil {
				return int(written.Load()), err
			}
			written.Add(int64(len(cards)))
			continue
		}

		err = r.RenderAll(ctx, cards, jobs, func(card *layout.Card, data []byte) error {
			name := fmt.Sprintf("%s-%03d%s", fileStem(card.Layout), card.Index+1, format.Ext())
			if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
				return err
			}
			written.Add(1)
			log.Debug().Str("file", name).Msg("card written")
			return nil
		})
		if err != nil {
			return int(written.Load()), err
		}
	}
	return int(written.Load()), nil
}

// buildCards 为版式的每一行数据生成卡牌；没有数据源时生成一张使用默认内容的卡牌。
func (a *app) buildCards(dir string, l *project.Layout) ([]*layout.Card, error) {
	opts := layout.BuildOptions{FontFamily: a.cfg.Font.Family, FontSize: a.cfg.Font.Size}
	rows := []map[string]any{nil}
	if ref := l.DefaultReference(); ref != nil {
		var err error
		if rows, err = project.Rows(dir, ref); err != nil {
			return nil, fmt.Errorf("版式 %s: %w", l.Name, err)
		}
	}
	cards := make([]*layout.Card, 0, len(rows))
	for i, row := range rows {
		card, err := layout.BuildCard(l, row, i, opts)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func fileStem(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "card"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
