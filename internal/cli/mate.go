package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haras/pkg/types"
)

func newMateCmd(a *app) *cobra.Command {
	var maleID, date string
	cmd := &cobra.Command{
		Use:   "mate <female-id>",
		Short: "Record a mating of a female",
		Long: "Appends a mating record to the female's history. The male's current\n" +
			"name is copied into the record; renaming the male later does not\n" +
			"change it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			if maleID == "" {
				return missingMale(a.breeding.Males())
			}

			on := types.Today()
			if cmd.Flags().Changed("date") {
				d, err := types.ParseDate(date)
				if err != nil {
					return err
				}
				on = d
			}

			rec, err := a.breeding.AddMating(args[0], maleID, on)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Acasalamento registrado: %s em %s\n", rec.MaleName, rec.Date.Format())
			return nil
		},
	}
	cmd.Flags().StringVar(&maleID, "male", "", "ID of the male")
	cmd.Flags().StringVar(&date, "date", "", "mating date (YYYY-MM-DD, default today)")
	return cmd
}

// missingMale explains how to pick a male, listing the candidates.
func missingMale(males []types.Horse) error {
	if len(males) == 0 {
		return userError("Nenhum macho registrado. Adicione um cavalo macho primeiro.", nil)
	}
	var b strings.Builder
	b.WriteString("Selecione um macho com --male:")
	for _, m := range males {
		fmt.Fprintf(&b, "\n  %s  %s", m.ID, m.Name)
	}
	return userError(b.String(), nil)
}
