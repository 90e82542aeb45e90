package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wizql/internal/config"
)

// InitCmd runs the interactive configuration generator
var InitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create a configuration file interactively",
	Args:         cobra.NoArgs,
	RunE:         executeInit,
	SilenceUsage: true,
}

func init() {
	InitCmd.Flags().BoolP("force", "f", false, "overwrite an existing configuration file")
	RootCmd.AddCommand(InitCmd)
}

func executeInit(cmd *cobra.Command, _ []string) error {
	path := getStringFlag(cmd, "config", config.DefaultPath)
	force := getBoolFlag(cmd, "force")

	prompt := terminalPrompt()
	prompt.out = cmd.OutOrStdout()

	return runGenerator(path, force, prompt)
}

// runGenerator refuses to replace an existing file unless force is set
func runGenerator(path string, force bool, prompt configPrompt) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file %s already exists (use --force to replace it)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	gen := config.NewGenerator(prompt.in, prompt.out, prompt.readSecret)
	if err := gen.Run(path); err != nil {
		return err
	}

	if !gen.Saved() {
		fmt.Fprintln(prompt.out, "No configuration saved")
	}

	return nil
}
