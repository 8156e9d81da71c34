package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create config.yaml and the data store",
		Long: "Writes config.yaml to the config directory if it does not exist yet\n" +
			"and creates the data directory and store of the configured backend.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return sysError("Erro ao criar o diretório de configuração.", err)
			}

			path := filepath.Join(a.configDir, configFileExt)
			created, err := writeConfigIfMissing(path, defaultConfigFile(a.cfg.GetString(cfgKeyBackend), a.flags.dataDir))
			if err != nil {
				return sysError("Erro ao gravar config.yaml.", err)
			}
			if err := a.open(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintln(out, "Configuração criada:", path)
			} else {
				fmt.Fprintln(out, "Configuração existente:", path)
			}
			fmt.Fprintf(out, "Dados (%s): %s\n", a.cfg.GetString(cfgKeyBackend), a.dataDir)
			return nil
		},
	}
}
