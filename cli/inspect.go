package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/cardcraft/layout"
	"github.com/ByLCY/cardcraft/logging"
	"github.com/ByLCY/cardcraft/markup"
	"github.com/ByLCY/cardcraft/project"
	canvasrenderer "github.com/ByLCY/cardcraft/renderer/canvas"
)

type inspectFlags struct {
	layout  string
	element string
	row     int
	text    string
	hasText bool
}

func (a *app) newInspectCommand() *cobra.Command {
	var f inspectFlags
	cmd := &cobra.Command{
		Use:   "inspect <project>",
		Short: "Print the laid out token geometry of a text element as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.hasText = cmd.Flags().Changed("text")
			dump, res, err := a.inspect(args[0], f)
			if err != nil {
				return err
			}
			if res.Fallback {
				logging.GetLogger("inspect").Warn().Err(res.Err).Msg("markup rejected, showing plain text layout")
			}
			return layout.EncodeDebugJSON(cmd.OutOrStdout(), dump)
		},
	}
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "layout name (default: first layout)")
	cmd.Flags().StringVarP(&f.element, "element", "e", "", "text element name")
	cmd.Flags().IntVar(&f.row, "row", 0, "data row used for binding (0 based)")
	cmd.Flags().StringVar(&f.text, "text", "", "lay out this markup instead of the element's value")
	_ = cmd.MarkFlagRequired("element")
	return cmd
}

func (a *app) inspect(projectPath string, f inspectFlags) (layout.DebugDump, *markup.Result, error) {
	log := logging.GetLogger("inspect")
	p, err := project.Read(projectPath, log)
	if err != nil {
		return layout.DebugDump{}, nil, err
	}
	if len(p.Layouts) == 0 {
		return layout.DebugDump{}, nil, fmt.Errorf("项目没有版式")
	}
	l := p.Layouts[0]
	if f.layout != "" {
		if l, err = p.Layout(f.layout); err != nil {
			return layout.DebugDump{}, nil, err
		}
	}

	dir := filepath.Dir(projectPath)
	cards, err := a.buildCards(dir, l)
	if err != nil {
		return layout.DebugDump{}, nil, err
	}
	if f.row < 0 || f.row >= len(cards) {
		return layout.DebugDump{}, nil, fmt.Errorf("数据行 %d 超出范围（共 %d 行）", f.row, len(cards))
	}

	var plan *layout.ElementPlan
	for i := range cards[f.row].Elements {
		if strings.EqualFold(cards[f.row].Elements[i].Element.Name, f.element) {
			plan = &cards[f.row].Elements[i]
			break
		}
	}
	if plan == nil {
		return layout.DebugDump{}, nil, fmt.Errorf("版式 %s 中没有启用的元素 %s", l.Name, f.element)
	}
	text := plan.Text
	if f.hasText {
		text = f.text
	}

	r := canvasrenderer.NewRenderer(canvasrenderer.Options{BaseDir: dir, Log: logging.GetLogger("canvas")})
	var res *markup.Result
	switch plan.Kind {
	case project.FormattedText:
		res, err = r.Pipeline().Layout(&plan.Element, text, r.Fonts())
	case project.Text:
		res, err = r.Pipeline().LayoutPlain(&plan.Element, text, r.Fonts())
	default:
		return layout.DebugDump{}, nil, fmt.Errorf("元素 %s 的类型 %s 不是文本", plan.Element.Name, plan.Kind)
	}
	if err != nil {
		return layout.DebugDump{}, nil, err
	}
	return layout.NewDebugDump(&plan.Element, res.Result), res, nil
}
