// Package repo contains pgx-backed persistence for the planner domain.
// Each aggregate gets an interface plus a PG implementation; services
// depend on the interfaces.
package repo

import "strings"

// prefixed prepends "alias." to every column in a comma-separated list,
// for use in JOIN queries.
func prefixed(alias, columns string) string {
	cols := strings.Split(columns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}
