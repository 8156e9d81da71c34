package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a horse",
		Long: "Deletes the horse record. Mating records of other horses that\n" +
			"point at it are kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError("Tem certeza que deseja excluir este cavalo? Esta ação não pode ser desfeita. Use --yes para confirmar.", nil)
			}
			if err := a.open(); err != nil {
				return err
			}
			h, err := a.breeding.Get(args[0])
			if err != nil {
				return err
			}
			if err := a.breeding.Delete(h.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cavalo excluído: %s (%s)\n", h.Name, h.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}
