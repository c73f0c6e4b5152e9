// Package migrations holds the numbered SQL files that build the element
// and filter tables.
package migrations

import "embed"

// FS holds the migrations as NNN_name.up.sql and NNN_name.down.sql pairs.
//
//go:embed *.sql
var FS embed.FS
