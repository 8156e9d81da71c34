// Package cli implements the haras command-line interface. Commands talk to
// the horse collection and the flows built on it, never to a store directly.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Version is stamped at build time through -ldflags -X.
var Version = "dev"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
	jsonMode  bool
}

// NewRootCmd creates the top-level "haras" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:   "haras",
		Short: "Registro de cavalos e acasalamentos do haras",
		Long: "haras mantém o cadastro dos cavalos do haras (filiação, chip, registro, foto)\n" +
			"e o histórico de acasalamento das éguas, com backup em JSON.",
		Version: Version,
		// Errors are reported by run with their exit code.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.haras-db)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: sqlite or jsonl")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newMateCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))

	return root, a
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// run executes one invocation. The store is always released, even when the
// command failed, and the error is turned into a message and exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root, a := newRootCmd()
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = sysError(msgStorage, cerr)
	}
	if err == nil {
		return exitSuccess
	}

	code, msg := describe(err)
	if code == exitSysError {
		a.logger.Error("command failed", "error", err)
	} else {
		a.logger.Debug("command rejected", "error", err)
	}
	fmt.Fprintln(stderr, msg)
	return code
}
