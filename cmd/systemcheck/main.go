package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/A2-ai/systemcheck/pkg/output"
	"github.com/A2-ai/systemcheck/pkg/report"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	verboseFlag bool
	jsonFlag    bool
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "systemcheck",
	Short: "Report the CPU and memory actually available to this process",
	Long: `Systemcheck reports the CPU and memory resources available to the current
process, distinguishing hardware capacity from cgroup limits imposed by
container runtimes and service managers.

Examples:
  systemcheck                # summary
  systemcheck -v             # detailed diagnostics
  systemcheck --json         # summary as JSON
  systemcheck -v --json      # detailed JSON
  systemcheck --debug        # trace limit resolution on stderr`,
	Version: Version,
	RunE:    runSystemcheck,
}

func init() {
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"verbose output (detailed sections)")
	rootCmd.Flags().BoolVar(&jsonFlag, "json", false,
		"emit JSON to stdout")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false,
		"log every limit-resolution fallback to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSystemcheck(cmd *cobra.Command, _ []string) error {
	configureLogging(debugFlag)

	r := report.Collect(os.DirFS("/"))
	w := cmd.OutOrStdout()

	switch {
	case jsonFlag && verboseFlag:
		return output.WriteJSON(w, r.Detailed(Version))
	case jsonFlag:
		return output.WriteJSON(w, r.Simple(Version))
	case verboseFlag:
		output.WriteDetailedText(w, r, Version)
	default:
		output.WriteSimpleText(w, r, Version)
	}
	return nil
}
