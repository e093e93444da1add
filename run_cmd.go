package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/svlang/lspdev/launcher"
	"github.com/svlang/lspdev/procfind"
)

func init() {
	flags := RunCmd.PersistentFlags()

	flags.Bool("gdb", false, "Attach gdb to the language server after launch")
}

var RunCmd = &cobra.Command{
	Use:   "run [target-file]",
	Short: "Launch the editor against the target file and tear it down afterwards",
	Long: `Launches the editor against the target file with the LSP plugin
logging enabled, discovers the editor and language-server PIDs, and
kills both at the end. With --gdb the editor is started in the
background, the server is signalled to pause itself, and gdb is
attached to it for an interactive session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, err := cmd.Flags().GetBool("gdb")
		if err != nil {
			return err
		}

		config, err := getConfigFile()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			config.TargetFile = args[0]
		}
		if config.TargetFile == "" {
			return fmt.Errorf("no target file: pass one as an argument or set 'target_file' in lspdev.yaml")
		}

		launcherConfig, err := config.LauncherConfig()
		if err != nil {
			return err
		}

		finder, err := procfind.NewPgrep(config.ProcessExclude)
		if err != nil {
			return err
		}

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		l := launcher.New(launcherConfig, finder)

		sessionLogFile := filepath.Join(getWorkspaceDir(wd), "session.log")
		sessionLog, err := os.Create(sessionLogFile)
		if err != nil {
			return err
		}
		defer sessionLog.Close()

		l.LogSessionTo(sessionLog)
		defer l.Close()

		debugLogger.Info().
			Str("target", config.TargetFile).
			Bool("gdb", debug).
			Str("session_log", sessionLogFile).
			Msg("Starting session")

		l.Run(debug)

		debugLogger.Info().Msg("Session finished")

		return nil
	},
}
