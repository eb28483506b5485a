package migrations

import "embed"

// FS embeds all SQL migration files for the offline cache database.
//
//go:embed *.sql
var FS embed.FS
