package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/cardcraft/logging"
	"github.com/ByLCY/cardcraft/project"
)

func (a *app) newProjectCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create a project with one default layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s 已存在（使用 --force 覆盖）", path)
			}
			s := project.NewSession(logging.GetLogger("project"))
			s.New(path)
			if err := s.Save(); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "已创建项目：%s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (a *app) newSaveAsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save-as <project> <new-path>",
		Short: "Save a project under a new path, rewriting relative references",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return err
			}
			s := project.NewSession(logging.GetLogger("project"))
			if err := s.Open(args[0]); err != nil {
				return err
			}
			if err := s.SaveAs(args[1]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "已另存为：%s\n", s.Path())
			return nil
		},
	}
}
