package migrations

import _ "embed"

//go:embed 20240601000002_create_leaderboard.up.sql
var createLeaderboardSQL string

func init() {
	Migrations.MustRegister(createTable(createLeaderboardSQL), dropTable("leaderboard_entries"))
}
