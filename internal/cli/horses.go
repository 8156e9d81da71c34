package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var males bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List horses sorted by name",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			horses := a.breeding.List()
			if males {
				horses = a.breeding.Males()
			}
			if a.flags.jsonMode {
				return writeHorsesJSON(cmd.OutOrStdout(), horses)
			}
			return printHorseTable(cmd.OutOrStdout(), horses, time.Now())
		},
	}
	cmd.Flags().BoolVar(&males, "males", false, "list only males")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one horse and its mating history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			h, err := a.breeding.Get(args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), h)
			}
			return printHorse(cmd.OutOrStdout(), h, time.Now())
		},
	}
}
