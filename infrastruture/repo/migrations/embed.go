// Package migrations embeds the SQL schema of the leaderboard databases.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
