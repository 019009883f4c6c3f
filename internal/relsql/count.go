package relsql

import (
	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relquery"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

// QueryToCountSQL lowers query and wraps the result as a single
// "count(*) AS rowCount" SELECT over it as a derived table — the row
// count a caller needs before paginating, without ever materializing
// query's own rows (spec §4.3).
func QueryToCountSQL(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, query relquery.Query) (SQLQueryAST, error) {
	ast, err := QueryToSQL(dialect, tableMap, query)
	if err != nil {
		return SQLQueryAST{}, err
	}
	sel := SQLSelectAST{
		SelectCols: []SelectItem{{
			ColExp:  CountStar{},
			ColType: dialect.ColumnType(reltype.KindInteger),
			As:      "rowCount",
		}},
		From: wrap(ast),
	}
	return SQLQueryAST{SelectStmts: []SQLSelectAST{sel}}, nil
}
