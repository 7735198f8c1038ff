package migrations

import "embed"

// Files holds the forward-only SQLite migrations, applied in version order.
//
//go:embed *.sql
var Files embed.FS
