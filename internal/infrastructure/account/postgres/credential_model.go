package postgres

import "database/sql"

const credentialTable = "dashboard_users"

type credentialTableModel struct {
	Username     string       `db:"username"`
	PasswordHash string       `db:"password_hash"`
	DisabledAt   sql.NullTime `db:"-"`
}
