// Package relprint renders a relsql.SQLQueryAST to dialect SQL text.
//
// Print walks each SQLSelectAST depth-first — SELECT list, FROM,
// optional WHERE/GROUP BY/ORDER BY — joining sibling SelectStmts
// (Concat's output) with UNION ALL, and suffixes LIMIT/OFFSET onto the
// outermost statement only when they are not the sentinel -1.
// Identifier quoting and string-literal escaping always go through the
// injected reldialect.Dialect; relprint makes no fusion decisions of
// its own — those are already frozen in the AST by the time it gets
// here.
//
// Clause assembly is fmt.Sprintf-based with strings.Join for predicate
// lists, walking an AST rather than building SQL text directly off the
// query IR.
package relprint
