package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"

	sqlassets "github.com/zenGate-Global/portfolio-pro-saas/database"
)

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	sql := `
-- leading comment
CREATE TABLE a (id INT);

-- only a comment;
CREATE INDEX a_idx ON a (id);
`
	got := splitStatements(sql)
	require.Equal(t, []string{
		"CREATE TABLE a (id INT)",
		"CREATE INDEX a_idx ON a (id)",
	}, got)
}

func TestSplitStatementsIgnoresSemicolonsInComments(t *testing.T) {
	t.Parallel()

	sql := `-- registry; one row per tenant
CREATE TABLE a (
    id INT, -- primary; never reused
    name TEXT
);
CREATE INDEX a_idx ON a (id); -- trailing; comment
`
	got := splitStatements(sql)
	require.Equal(t, []string{
		"CREATE TABLE a (\n    id INT, \n    name TEXT\n)",
		"CREATE INDEX a_idx ON a (id)",
	}, got)
}

func TestEmbeddedSchemaSplitsIntoStatements(t *testing.T) {
	t.Parallel()

	for name, sql := range map[string]string{
		"tenants":    sqlassets.TenantsSQL,
		"principals": sqlassets.PrincipalsSQL,
		"profiles":   sqlassets.ProfilesSQL,
	} {
		stmts := splitStatements(sql)
		require.NotEmpty(t, stmts, name)
		for _, stmt := range stmts {
			require.Regexp(t, `^CREATE `, stmt, name)
		}
	}
}
