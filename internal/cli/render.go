package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/haras/internal/backup"
	"github.com/mesh-intelligence/haras/pkg/types"
)

// notAvailable stands in for empty optional fields.
const notAvailable = "N/A"

// writeHorsesJSON prints horses in the export document format.
func writeHorsesJSON(w io.Writer, horses []types.Horse) error {
	data, err := backup.Export(horses)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printHorseTable prints one line per horse, in the order given.
func printHorseTable(w io.Writer, horses []types.Horse, now time.Time) error {
	if len(horses) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum cavalo cadastrado.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NOME\tSEXO\tIDADE\tNASCIMENTO\tID")
	for _, h := range horses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			h.Name, h.Gender, types.FormatAge(h.AgeOn(now)), h.BirthDate.Format(), h.ID)
	}
	return tw.Flush()
}

// printHorse prints the detail view of one horse.
func printHorse(w io.Writer, h types.Horse, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Nome:\t%s\n", h.Name)
	fmt.Fprintf(tw, "ID:\t%s\n", h.ID)
	fmt.Fprintf(tw, "Sexo:\t%s\n", h.Gender)
	fmt.Fprintf(tw, "Idade:\t%s\n", types.FormatAge(h.AgeOn(now)))
	fmt.Fprintf(tw, "Nascimento:\t%s\n", h.BirthDate.Format())
	fmt.Fprintf(tw, "Pai:\t%s\n", orNA(h.Father))
	fmt.Fprintf(tw, "Mãe:\t%s\n", orNA(h.Mother))
	fmt.Fprintf(tw, "Chip:\t%s\n", orNA(h.Chip))
	fmt.Fprintf(tw, "Registro:\t%s\n", orNA(h.Registro))
	fmt.Fprintf(tw, "Local:\t%s\n", orNA(h.BirthPlace))
	fmt.Fprintf(tw, "Detalhes do Parto:\t%s\n", orNA(h.DeliveryDetails))
	fmt.Fprintf(tw, "Foto:\t%s\n", pictureSummary(h.Picture))
	if err := tw.Flush(); err != nil {
		return err
	}
	if !h.IsFemale() {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Histórico de Acasalamento")
	history := h.MatingHistoryDesc()
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum registro de acasalamento.")
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range history {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", rec.Date.Format(), rec.MaleName, rec.MaleID)
	}
	return tw.Flush()
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func pictureSummary(uri string) string {
	if uri == "" {
		return notAvailable
	}
	return fmt.Sprintf("sim (%d bytes)", len(uri))
}
