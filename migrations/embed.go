// Package migrations embeds the SQL schema. Files are applied in name order;
// "{{prefix}}" is replaced with the environment table prefix.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
