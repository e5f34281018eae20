package migrations

import _ "embed"

//go:embed 20240601000001_create_questions.up.sql
var createQuestionsSQL string

func init() {
	Migrations.MustRegister(createTable(createQuestionsSQL), dropTable("questions"))
}
