package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relq/relq/internal/relprint"
	"github.com/relq/relq/internal/relquery"
	"github.com/relq/relq/internal/relsql"
	"github.com/relq/relq/internal/relwire"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Offset int
	Limit  int
}

// NewCompileCommand creates the compile command: a catalog directory
// plus a QueryRep JSON file in, compiled SQL text out.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <catalog-dir> <query.json>",
		Short: "Compile a QueryRep to SQL against a CUE catalog",
		Long: `Loads a table catalog from CUE files, parses a QueryRep from a JSON
file using the expType-tagged wire form, lowers it to a SQL AST, and
prints the resulting SQL text.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Offset, "offset", -1, "row offset (-1 for none)")
	cmd.Flags().IntVar(&opts.Limit, "limit", -1, "row limit (-1 for none)")

	return cmd
}

func runCompile(opts *CompileOptions, catalogDir, queryPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	dialect, err := resolveDialect(opts.Dialect)
	if err != nil {
		return outputCLIError(formatter, ErrCodeGeneric, err.Error())
	}

	formatter.VerboseLog("Loading catalog from %s", catalogDir)
	catalog, loadErr := LoadCatalog(dialect, catalogDir)
	if loadErr != nil {
		return outputCLIError(formatter, loadErr.Code, loadErr.Error())
	}

	query, err := loadQuery(queryPath)
	if err != nil {
		return outputCLIError(formatter, ErrCodeQueryInvalid, err.Error())
	}

	formatter.VerboseLog("Lowering query to SQL AST")
	ast, err := relsql.QueryToSQL(dialect, catalog, query)
	if err != nil {
		return outputCLIError(formatter, ErrCodeQueryInvalid, err.Error())
	}

	sql, err := relprint.Print(dialect, ast, opts.Offset, opts.Limit)
	if err != nil {
		return outputCLIError(formatter, ErrCodeQueryInvalid, err.Error())
	}

	return outputCompileSuccess(formatter, sql)
}

// outputCompileSuccess prints the compiled SQL text in the configured
// format.
func outputCompileSuccess(formatter *OutputFormatter, sql string) error {
	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"sql": sql})
	}
	fmt.Fprintln(formatter.Writer, sql)
	return nil
}

// loadQuery reads and revives a relquery.Query from its JSON wire form.
func loadQuery(path string) (relquery.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	query, err := relwire.UnmarshalQuery(data)
	if err != nil {
		return nil, fmt.Errorf("parsing query: %w", err)
	}
	return query, nil
}

// outputCLIError reports a command-level error via formatter and
// returns an ExitError carrying the command-error exit code.
func outputCLIError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}
