// Package cli is a thin spf13/cobra front-end wrapping catalog loading
// (internal/relcatalog), query compilation (internal/relinfer +
// internal/relsql), and SQL pretty-printing (internal/relprint) for
// interactive/diagnostic use. None of it is part of the normative
// core: the core always takes an explicit Dialect and TableInfoMap and
// has no notion of files, flags, or stdout — this package supplies
// all three.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relq/relq/internal/reldialect"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Dialect string // "sqlite" | "postgres"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the relquery CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "relquery",
		Short: "relquery - relational query compiler",
		Long:  "Loads a table catalog, compiles a QueryRep to SQL, and prints the result.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := resolveDialect(opts.Dialect); err != nil {
				return err
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Dialect, "dialect", "sqlite", "SQL dialect (sqlite|postgres)")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// resolveDialect maps a --dialect flag value to its reldialect.Dialect.
func resolveDialect(name string) (*reldialect.Dialect, error) {
	switch name {
	case "sqlite", "":
		return reldialect.SQLite, nil
	case "postgres":
		return reldialect.Postgres, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q: must be sqlite or postgres", name)
	}
}
