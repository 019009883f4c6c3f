package relprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relfilter"
	"github.com/relq/relq/internal/relsql"
	"github.com/relq/relq/internal/reltype"
)

// noLimit is the sentinel passed for offset/limit when a query wants
// every row — Print omits the clause entirely rather than emitting
// LIMIT -1.
const noLimit = -1

// Print renders ast as dialect SQL text. A single SQLSelectAST becomes
// one SELECT; more than one (Concat's output) are joined with UNION
// ALL. offset/limit suffix the outermost statement and are omitted
// entirely when equal to the sentinel -1.
func Print(dialect *reldialect.Dialect, ast relsql.SQLQueryAST, offset, limit int) (string, error) {
	body, err := renderQuery(dialect, ast)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(body)
	if limit != noLimit {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	if offset != noLimit {
		fmt.Fprintf(&b, " OFFSET %d", offset)
	}
	return b.String(), nil
}

func renderQuery(dialect *reldialect.Dialect, ast relsql.SQLQueryAST) (string, error) {
	parts := make([]string, len(ast.SelectStmts))
	for i, stmt := range ast.SelectStmts {
		sql, err := renderSelect(dialect, stmt)
		if err != nil {
			return "", err
		}
		parts[i] = sql
	}
	return strings.Join(parts, " UNION ALL "), nil
}

func renderSelect(dialect *reldialect.Dialect, stmt relsql.SQLSelectAST) (string, error) {
	fromSQL, qualify, err := renderFrom(dialect, stmt.From, stmt.On)
	if err != nil {
		return "", err
	}

	cols, err := renderSelectCols(dialect, stmt.SelectCols, qualify)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, fromSQL)

	if stmt.Where != nil {
		whereSQL, err := renderFilter(dialect, stmt.Where, qualify)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " WHERE %s", whereSQL)
	}

	if len(stmt.GroupBy) > 0 {
		quoted := make([]string, len(stmt.GroupBy))
		for i, c := range stmt.GroupBy {
			quoted[i] = qualify(c) + dialect.QuoteCol(c)
		}
		fmt.Fprintf(&b, " GROUP BY %s", strings.Join(quoted, ", "))
	}

	if len(stmt.OrderBy) > 0 {
		keys := make([]string, len(stmt.OrderBy))
		for i, k := range stmt.OrderBy {
			dir := "ASC"
			if !k.Asc {
				dir = "DESC"
			}
			keys[i] = fmt.Sprintf("%s%s %s", qualify(k.Col), dialect.QuoteCol(k.Col), dir)
		}
		fmt.Fprintf(&b, " ORDER BY %s", strings.Join(keys, ", "))
	}

	return b.String(), nil
}

func renderSelectCols(dialect *reldialect.Dialect, items []relsql.SelectItem, qualify func(string) string) (string, error) {
	if len(items) == 0 {
		return "*", nil
	}
	parts := make([]string, len(items))
	for i, item := range items {
		exprSQL, err := renderSelectExpr(dialect, item.ColExp, qualify)
		if err != nil {
			return "", err
		}
		if item.As != "" {
			parts[i] = fmt.Sprintf("%s AS %s", exprSQL, dialect.QuoteCol(item.As))
		} else {
			parts[i] = exprSQL
		}
	}
	return strings.Join(parts, ", "), nil
}

func renderSelectExpr(dialect *reldialect.Dialect, e relsql.SelectExpr, qualify func(string) string) (string, error) {
	switch v := e.(type) {
	case relsql.ColumnRef:
		return qualify(v.Name) + dialect.QuoteCol(v.Name), nil
	case relsql.Const:
		return renderLiteral(dialect, v.Value), nil
	case relsql.AggCall:
		arg := qualify(v.Arg.Name) + dialect.QuoteCol(v.Arg.Name)
		return renderAggCall(v.Fn, arg), nil
	case relsql.AsStringCall:
		inner, err := renderSelectExpr(dialect, v.Inner, qualify)
		if err != nil {
			return "", err
		}
		ct := dialect.ColumnType(reltype.KindString)
		sqlType := "TEXT"
		if ct != nil {
			sqlType = ct.SQLTypeName
		}
		return fmt.Sprintf("CAST(%s AS %s)", inner, sqlType), nil
	case relsql.CountStar:
		return "count(*)", nil
	default:
		return "", fmt.Errorf("relprint: unsupported select expression %T", e)
	}
}

// renderAggCall maps the normative AggFn vocabulary onto concrete SQL.
// sum/avg/min/max/count translate directly; uniq becomes
// COUNT(DISTINCT arg). any and the string-typed nullstr/mode fallback
// have no single-expression SQL equivalent (a true "most frequent
// value" needs a correlated subquery) — both render as MIN(arg), an
// arbitrary but deterministic representative pick.
func renderAggCall(fn reltype.AggFn, arg string) string {
	switch fn {
	case reltype.AggSum:
		return fmt.Sprintf("SUM(%s)", arg)
	case reltype.AggAvg:
		return fmt.Sprintf("AVG(%s)", arg)
	case reltype.AggMin:
		return fmt.Sprintf("MIN(%s)", arg)
	case reltype.AggMax:
		return fmt.Sprintf("MAX(%s)", arg)
	case reltype.AggCount:
		return fmt.Sprintf("COUNT(%s)", arg)
	case reltype.AggUniq:
		return fmt.Sprintf("COUNT(DISTINCT %s)", arg)
	default:
		return fmt.Sprintf("MIN(%s)", arg)
	}
}

func renderLiteral(dialect *reldialect.Dialect, v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return dialect.EscapeString(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// renderFrom returns the FROM clause text and a qualify function: given
// a bare column name, qualify returns the table-alias prefix ("" for
// every From shape but a join, where it disambiguates which side a
// name comes from — the only place the same column id can legitimately
// appear on both sides of the FROM).
func renderFrom(dialect *reldialect.Dialect, f relsql.From, on []string) (string, func(string) string, error) {
	switch v := f.(type) {
	case relsql.FromTable:
		return dialect.QuoteCol(v.Name), noopQualify, nil
	case relsql.FromSubquery:
		sub, err := renderQuery(dialect, v.Query)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("(%s)", sub), noopQualify, nil
	case relsql.FromJoin:
		lhsSQL, _, err := renderFrom(dialect, v.Lhs, nil)
		if err != nil {
			return "", nil, err
		}
		rhsSQL, _, err := renderFrom(dialect, v.Rhs, nil)
		if err != nil {
			return "", nil, err
		}
		lhsIDs := outputIDs(v.Lhs)
		qualify := func(col string) string {
			if lhsIDs[col] {
				return "lhs."
			}
			return "rhs."
		}
		var onParts []string
		for _, col := range on {
			onParts = append(onParts, fmt.Sprintf("lhs.%s = rhs.%s", dialect.QuoteCol(col), dialect.QuoteCol(col)))
		}
		onSQL := "1 = 1"
		if len(onParts) > 0 {
			onSQL = strings.Join(onParts, " AND ")
		}
		sql := fmt.Sprintf("%s AS lhs %s JOIN %s AS rhs ON %s", lhsSQL, joinKeyword(v.JoinType), rhsSQL, onSQL)
		return sql, qualify, nil
	default:
		return "", nil, fmt.Errorf("relprint: unsupported from clause %T", f)
	}
}

func noopQualify(string) string { return "" }

func joinKeyword(joinType string) string {
	switch joinType {
	case "LeftOuter":
		return "LEFT OUTER"
	default:
		return strings.ToUpper(joinType)
	}
}

// outputIDs returns the set of output column ids f's underlying SELECT
// presents, used only to decide which side of a join a bare column
// name belongs to.
func outputIDs(f relsql.From) map[string]bool {
	sub, ok := f.(relsql.FromSubquery)
	if !ok || len(sub.Query.SelectStmts) == 0 {
		return nil
	}
	ids := make(map[string]bool)
	for _, item := range sub.Query.SelectStmts[0].SelectCols {
		if item.As != "" {
			ids[item.As] = true
			continue
		}
		if ref, ok := item.ColExp.(relsql.ColumnRef); ok {
			ids[ref.Name] = true
		}
	}
	return ids
}

func renderFilter(dialect *reldialect.Dialect, f relfilter.FilterExp, qualify func(string) string) (string, error) {
	switch v := f.(type) {
	case relfilter.And:
		return renderConjunction(dialect, v.Predicates, "AND", qualify)
	case relfilter.Or:
		return renderConjunction(dialect, v.Predicates, "OR", qualify)
	case relfilter.BinRelExp:
		lhs, err := renderColumnExpr(dialect, v.Lhs, qualify)
		if err != nil {
			return "", err
		}
		rhs, err := renderColumnExpr(dialect, v.Rhs, qualify)
		if err != nil {
			return "", err
		}
		return renderBinOp(v.Op, lhs, rhs), nil
	case relfilter.UnaryRelExp:
		arg, err := renderColumnExpr(dialect, v.Arg, qualify)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s", arg, v.Op), nil
	default:
		return "", fmt.Errorf("relprint: unsupported filter expression %T", f)
	}
}

func renderConjunction(dialect *reldialect.Dialect, preds []relfilter.FilterExp, joiner string, qualify func(string) string) (string, error) {
	if len(preds) == 0 {
		if joiner == "AND" {
			return "1 = 1", nil
		}
		return "1 = 0", nil
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		sql, err := renderFilter(dialect, p, qualify)
		if err != nil {
			return "", err
		}
		parts[i] = fmt.Sprintf("(%s)", sql)
	}
	return strings.Join(parts, " "+joiner+" "), nil
}

func renderBinOp(op relfilter.Op, lhs, rhs string) string {
	switch op {
	case relfilter.OpLike:
		return fmt.Sprintf("%s LIKE %s", lhs, rhs)
	case relfilter.OpBegins:
		return fmt.Sprintf("%s LIKE %s || '%%'", lhs, rhs)
	case relfilter.OpEnds:
		return fmt.Sprintf("%s LIKE '%%' || %s", lhs, rhs)
	case relfilter.OpContains:
		return fmt.Sprintf("%s LIKE '%%' || %s || '%%'", lhs, rhs)
	default:
		return fmt.Sprintf("%s %s %s", lhs, op, rhs)
	}
}

func renderColumnExpr(dialect *reldialect.Dialect, e relfilter.ColumnExpr, qualify func(string) string) (string, error) {
	switch v := e.(type) {
	case relfilter.ColRef:
		return qualify(v.Name) + dialect.QuoteCol(v.Name), nil
	case relfilter.ConstVal:
		return renderLiteral(dialect, v.Value), nil
	default:
		return "", fmt.Errorf("relprint: unsupported column expression %T", e)
	}
}
