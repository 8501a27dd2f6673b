// Package migrations embeds the SQL schema applied by database.RunMigrations.
package migrations

import "embed"

// FS holds the *.up.sql files in apply order.
//
//go:embed *.sql
var FS embed.FS
