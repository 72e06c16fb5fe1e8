package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global output flags only
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "archvalidate",
	Short: "Validate zero-copy archive buffers without deserializing them",
	Long: `archvalidate checks that a byte buffer produced by a zero-copy
serializer is safe to read in place: every relative pointer resolves
inside the buffer, every claimed region is non-overlapping, and the
B-tree map it contains satisfies its structural invariants (balance,
key ordering, leaf linkage, entry count).

Commands:
  validate    Validate an archive file and report the outcome`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Only global output control flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}

// GetQuiet returns the quiet flag value
func GetQuiet() bool {
	return quiet
}
