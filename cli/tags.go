package cli

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/cardcraft/fonts"
	"github.com/ByLCY/cardcraft/markup"
)

func newTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the markup tags accepted in formatted text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range markup.DefaultRegistry().Names() {
				printf(cmd.OutOrStdout(), "%s\n", name)
			}
			return nil
		},
	}
}

func newFontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the built-in font families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range fonts.Families() {
				printf(cmd.OutOrStdout(), "%s\n", name)
			}
			return nil
		},
	}
}
