package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DBClient represents a Postgres client backed by sqlx and lib/pq.
type DBClient struct {
	db *sqlx.DB
}

// DB returns the underlying database connection.
func (p *DBClient) DB() *sqlx.DB {
	return p.db
}

// Close closes the database connection for graceful shutdown.
func (p *DBClient) Close() error {
	return p.db.Close()
}

// MustNewDBClient creates a new sqlx Postgres client and applies migrations.
// It reads the same settings as MustNewClient.
func MustNewDBClient(envPrefix string) *DBClient {
	db, err := sqlx.Open("postgres", connString(envPrefix))
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	if err := migrate(db.DB); err != nil {
		panic(err)
	}

	return &DBClient{
		db: db,
	}
}
