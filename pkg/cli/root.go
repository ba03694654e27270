// Package cli implements the inferguard command tree: protection
// comparisons, the attack suite, the polyinstantiation and least-privilege
// demonstrations, and the metastore views, all against the locally
// configured store.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "inferguard",
		Short: "Database inference-control demonstrator",
		Long: `inferguard runs classic inference attacks and disclosure-control
strategies against the configured store, side by side.

The store and metastore come from the environment (STORE_DRIVER, STORE_DSN,
META_DB_PATH, ...), with a .env fallback in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.output != "table" && flags.output != "json" {
				return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", flags.output)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&flags.caller, "caller", "cli", "Caller principal recorded in the audit trail")
	rootCmd.PersistentFlags().StringVar(&flags.storeUser, "store-user", "", "Store login to run queries as (prompts for the password)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log wiring and query activity to stderr")

	rootCmd.AddCommand(newCompareCmd(flags))
	rootCmd.AddCommand(newEvaluateCmd(flags))
	rootCmd.AddCommand(newAttackCmd(flags))
	rootCmd.AddCommand(newSuiteCmd(flags))
	rootCmd.AddCommand(newPolyCmd(flags))
	rootCmd.AddCommand(newPrivilegeCmd(flags))
	rootCmd.AddCommand(newAuditCmd(flags))
	rootCmd.AddCommand(newHistoryCmd(flags))
	rootCmd.AddCommand(newTokenCmd(flags))

	return rootCmd
}

type rootFlags struct {
	output    string
	caller    string
	storeUser string
	verbose   bool
}

func (f *rootFlags) json() bool { return f.output == "json" }
