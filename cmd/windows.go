package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wizql/internal/interfaces"
	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/process"
	"github.com/Norgate-AV/wizql/internal/windows"
	"github.com/Norgate-AV/wizql/internal/wizard101"
)

// WindowsCmd lists the top-level windows the launcher would consider
var WindowsCmd = &cobra.Command{
	Use:          "windows",
	Short:        "List open windows matching the client window class",
	Args:         cobra.NoArgs,
	RunE:         executeWindows,
	SilenceUsage: true,
}

func init() {
	WindowsCmd.Flags().String("class", wizard101.WindowClass, "window class substring to match (empty matches every window)")
	RootCmd.AddCommand(WindowsCmd)
}

func executeWindows(cmd *cobra.Command, _ []string) error {
	class, _ := cmd.Flags().GetString("class")
	api := windows.NewWindowsAPI(logger.NewNoOpLogger(), process.Spec{})

	return listWindows(cmd.OutOrStdout(), api, class)
}

func listWindows(w io.Writer, registry interfaces.WindowRegistry, class string) error {
	snap := registry.Snapshot(class)
	if snap.Len() == 0 {
		_, err := fmt.Fprintf(w, "No windows matching %q\n", class)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HANDLE\tPID\tCLASS\tTITLE")
	for _, win := range snap.Windows() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", win.Handle, win.PID, win.Class, win.Title)
	}

	return tw.Flush()
}
