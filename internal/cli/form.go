package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// horseFlags are the form fields shared by add and edit.
type horseFlags struct {
	name            string
	birthDate       string
	gender          string
	father          string
	mother          string
	chip            string
	registro        string
	picture         string
	birthPlace      string
	deliveryDetails string
}

func (f *horseFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "name")
	fs.StringVar(&f.birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	fs.StringVar(&f.gender, "gender", "", "gender: Macho or Fêmea (m/f)")
	fs.StringVar(&f.father, "father", "", "father's name")
	fs.StringVar(&f.mother, "mother", "", "mother's name")
	fs.StringVar(&f.chip, "chip", "", "microchip number (digits only)")
	fs.StringVar(&f.registro, "registro", "", "registry number (digits only)")
	fs.StringVar(&f.picture, "picture", "", "path to an image file")
	fs.StringVar(&f.birthPlace, "birth-place", "", "birth place")
	fs.StringVar(&f.deliveryDetails, "delivery-details", "", "delivery details")
}

// apply copies the flags set on the command line onto in. Flags left
// unset keep the value already in in.
func (f *horseFlags) apply(cmd *cobra.Command, in types.HorseInput) (types.HorseInput, error) {
	changed := cmd.Flags().Changed

	if changed("name") {
		in.Name = f.name
	}
	if changed("birth-date") {
		d, err := types.ParseDate(f.birthDate)
		if err != nil {
			return in, err
		}
		in.BirthDate = d
	}
	if changed("gender") {
		g, err := types.ParseGender(f.gender)
		if err != nil {
			return in, err
		}
		in.Gender = g
	}
	if changed("father") {
		in.Father = f.father
	}
	if changed("mother") {
		in.Mother = f.mother
	}
	if changed("chip") {
		in.Chip = f.chip
	}
	if changed("registro") {
		in.Registro = f.registro
	}
	if changed("picture") {
		uri, err := types.EncodePicture(f.picture)
		if err != nil {
			return in, userError("Não foi possível ler a foto.", err)
		}
		in.Picture = uri
	}
	if changed("birth-place") {
		in.BirthPlace = f.birthPlace
	}
	if changed("delivery-details") {
		in.DeliveryDetails = f.deliveryDetails
	}
	return in, nil
}

func newAddCmd(a *app) *cobra.Command {
	var f horseFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new horse",
		Example: "  haras add --name Estrela --birth-date 2015-08-20 --gender f\n" +
			"  haras add --name Trovão --birth-date 2012-03-02 --gender m --chip 982000411",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.apply(cmd, types.HorseInput{})
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			h, err := a.breeding.Add(in)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), h)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cavalo cadastrado: %s (%s)\n", h.Name, h.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		f         horseFlags
		noPicture bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the fields of a horse",
		Long: "Only the flags given are changed. The ID and the mating history\n" +
			"are never touched by edit.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			current, err := a.breeding.Get(args[0])
			if err != nil {
				return err
			}
			in, err := f.apply(cmd, types.InputOf(current))
			if err != nil {
				return err
			}
			if noPicture {
				in.Picture = ""
			}
			h, err := a.breeding.Edit(current.ID, in)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), h)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cavalo atualizado: %s (%s)\n", h.Name, h.ID)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&noPicture, "no-picture", false, "remove the picture")
	cmd.MarkFlagsMutuallyExclusive("picture", "no-picture")
	return cmd
}
