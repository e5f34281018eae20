package migrations

import _ "embed"

//go:embed 20240601000003_create_profiles.up.sql
var createProfilesSQL string

func init() {
	Migrations.MustRegister(createTable(createProfilesSQL), dropTable("player_profiles"))
}
