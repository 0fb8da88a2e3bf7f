// Package migrations embeds the SQL schema migrations applied by
// golang-migrate, so the binaries carry their own schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
