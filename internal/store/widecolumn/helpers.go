package widecolumn

import "strings"

// splitStatements splits a semicolon-delimited block of CQL DDL into
// individual statements; gocql's Session.Query executes one statement at a
// time, unlike pgx's Exec which accepts a whole script.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
