package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haras/internal/share"
	"github.com/mesh-intelligence/haras/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		toStdout bool
		dir      string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of all horses",
		Long: "Writes haras_backup_YYYY-MM-DD.json to the configured export target\n" +
			"(a directory or an S3 bucket), or to stdout with --stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			if toStdout {
				return writeHorsesJSON(cmd.OutOrStdout(), a.horses.Horses())
			}

			target, err := a.shareTarget(cmd.Context(), dir)
			if err != nil {
				return err
			}
			location, err := a.backupService(target).Export(cmd.Context())
			if err != nil {
				return sysError("Erro ao exportar os dados.", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dados exportados:", location)
			return nil
		},
	}
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the document to stdout")
	cmd.Flags().StringVar(&dir, "dir", "", "destination directory for the fs target")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var (
		yes        bool
		fromTarget string
	)
	cmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Replace all horses with a JSON backup",
		Long: "Validates the document and replaces the whole collection with it.\n" +
			"The current data is kept if the document is rejected or the store\n" +
			"write fails. Use - to read from stdin or --from-target to fetch a\n" +
			"backup from the configured export target.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fromTarget == "" {
				return userError("Informe o arquivo a importar ou use --from-target.", nil)
			}
			if len(args) == 1 && fromTarget != "" {
				return userError("Use um arquivo ou --from-target, não ambos.", nil)
			}
			if !yes {
				return userError("Tem certeza que deseja importar este arquivo? Todos os dados atuais serão substituídos. Use --yes para confirmar.", nil)
			}
			if err := a.open(); err != nil {
				return err
			}

			var (
				n   int
				err error
			)
			switch {
			case fromTarget != "":
				target, terr := a.shareTarget(cmd.Context(), "")
				if terr != nil {
					return terr
				}
				n, err = a.backupService(target).Import(cmd.Context(), fromTarget)
			case args[0] == "-":
				data, rerr := io.ReadAll(cmd.InOrStdin())
				if rerr != nil {
					return userError("Erro ao ler a entrada padrão.", rerr)
				}
				n, err = a.backupService(nil).ImportDocument(data)
			default:
				target, terr := share.NewFilesystem(filepath.Dir(args[0]))
				if terr != nil {
					return sysError(msgStorage, terr)
				}
				n, err = a.backupService(target).Import(cmd.Context(), filepath.Base(args[0]))
			}
			if err != nil {
				return importFailure(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Dados importados com sucesso!")
			fmt.Fprintf(cmd.OutOrStdout(), "Cavalos carregados: %d.\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm replacing all data")
	cmd.Flags().StringVar(&fromTarget, "from-target", "", "backup name to fetch from the export target")
	return cmd
}

// importFailure keeps the known causes for describe and reports anything
// else, such as a failed download, as a system error.
func importFailure(err error) error {
	if types.Category(err) != types.CategoryUnknown ||
		errors.Is(err, share.ErrNotFound) || errors.Is(err, share.ErrInvalidName) {
		return err
	}
	return sysError("Erro ao importar os dados.", err)
}
