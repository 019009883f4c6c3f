package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relq/relq/internal/relinfer"
	"github.com/relq/relq/internal/relwire"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
}

// NewSchemaCommand creates the schema command: a catalog directory
// plus a QueryRep JSON file in, the query's inferred output schema
// out: the relwire.MarshalSchema wire form with --format json, the
// list of column ids with --format text.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "schema <catalog-dir> <query.json>",
		Short:         "Infer a QueryRep's output schema against a CUE catalog",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runSchema(opts *SchemaOptions, catalogDir, queryPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dialect, err := resolveDialect(opts.Dialect)
	if err != nil {
		return outputCLIError(formatter, ErrCodeGeneric, err.Error())
	}

	catalog, loadErr := LoadCatalog(dialect, catalogDir)
	if loadErr != nil {
		return outputCLIError(formatter, loadErr.Code, loadErr.Error())
	}

	query, err := loadQuery(queryPath)
	if err != nil {
		return outputCLIError(formatter, ErrCodeQueryInvalid, err.Error())
	}

	schema, err := relinfer.GetQuerySchema(dialect, catalog, query)
	if err != nil {
		return outputCLIError(formatter, ErrCodeQueryInvalid, err.Error())
	}

	raw, err := relwire.MarshalSchema(schema)
	if err != nil {
		return outputCLIError(formatter, ErrCodeGeneric, err.Error())
	}

	if formatter.Format == "json" {
		fmt.Fprintln(formatter.Writer, string(raw))
		return nil
	}
	fmt.Fprintln(formatter.Writer, schema.Columns)
	return nil
}
