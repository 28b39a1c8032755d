package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rhseung/ps-cli-sub001/internal/config"
	"github.com/rhseung/ps-cli-sub001/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a ps-cli project in the given directory",
	Long:  "Create the .ps-cli state directory and a default config file. Progress files are stored under .ps-cli/progress.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	root, err := project.Init(dir)
	if err != nil {
		return err
	}

	configPath := project.ConfigPath(root)
	if _, err := os.Stat(configPath); err == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Project already initialized at %s\n", root)
		return nil
	}
	if err := config.Write(configPath, config.Defaults()); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized ps-cli project in %s\n", root)
	return nil
}
