// Package cli 实现 cardcraft 命令行。
package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/cardcraft/config"
	"github.com/ByLCY/cardcraft/logging"
)

// app 保存一次命令执行的全局选项与配置。
type app struct {
	verbosity int
	cfgFile   string
	cfg       *config.Config
}

// Execute runs the cardcraft command line with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cardcraft",
		Short: "Card layout renderer",
		Long: `cardcraft renders card layouts from a project file, binding each row of the
layout's CSV reference into its elements. Formatted text elements accept inline
markup such as <b>, <fc:red> and <bgcolor:yellow;1>.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.SetupLogger(max(a.verbosity, cfg.Log.Verbosity))
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./"+config.FileName+" when present)")

	root.AddCommand(
		a.newRenderCommand(),
		a.newInspectCommand(),
		a.newProjectCommand(),
		a.newSaveAsCommand(),
		newTagsCommand(),
		newFontsCommand(),
	)
	return root
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
