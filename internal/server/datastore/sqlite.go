package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/five82/rolo/internal/contacts"
)

// OpenSQLite opens a SQLite database at dsn with WAL, foreign keys and a 5s
// busy timeout, and runs pending migrations.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite to avoid locking issues.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrations is an ordered list of statement groups. The version of a group is
// its 1-based index.
var migrations = [][]string{
	{
		`CREATE TABLE contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nombre TEXT NOT NULL,
			apellido TEXT NOT NULL,
			telefono TEXT NOT NULL DEFAULT '',
			correo_electronico TEXT NOT NULL DEFAULT '',
			calle TEXT NOT NULL DEFAULT '',
			ciudad TEXT NOT NULL DEFAULT '',
			estado TEXT NOT NULL DEFAULT '',
			empresa TEXT NOT NULL DEFAULT '',
			cargo TEXT NOT NULL DEFAULT '',
			notas TEXT NOT NULL DEFAULT '',
			fecha_cumpleanos TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	},
}

// Migrate applies pending migrations, each inside its own transaction, and
// records them in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for i, stmts := range migrations {
		version := i + 1

		var exists int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", version, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}
	return nil
}

// SQLite implements [ContactsStore] on a migrated database.
type SQLite struct {
	db *sql.DB
}

var _ ContactsStore = (*SQLite)(nil)

// NewSQLite wraps db, which must already be migrated.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

const contactColumns = `id, nombre, apellido, telefono, correo_electronico, calle, ciudad, estado, empresa, cargo, notas, fecha_cumpleanos`

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (contacts.Contact, error) {
	var c contacts.Contact
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.Street,
		&c.City, &c.State, &c.Company, &c.Title, &c.Notes, &c.Birthday)
	return c, err
}

func (s *SQLite) List(ctx context.Context) ([]contacts.Contact, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+contactColumns+" FROM contacts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []contacts.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

func (s *SQLite) Get(ctx context.Context, id int64) (contacts.Contact, error) {
	return getContact(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getContact(ctx context.Context, q querier, id int64) (contacts.Contact, error) {
	c, err := scanContact(q.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return contacts.Contact{}, ErrNotFound
	}
	if err != nil {
		return contacts.Contact{}, fmt.Errorf("get contact %d: %w", id, err)
	}
	return c, nil
}

func (s *SQLite) Create(ctx context.Context, f contacts.Fields) (contacts.Contact, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO contacts
		(nombre, apellido, telefono, correo_electronico, calle, ciudad, estado, empresa, cargo, notas, fecha_cumpleanos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.FirstName, f.LastName, f.Phone, f.Email, f.Street, f.City, f.State, f.Company, f.Title, f.Notes, f.Birthday)
	if err != nil {
		return contacts.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return contacts.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return contacts.Contact{ID: id, Fields: f}, nil
}

func (s *SQLite) Update(ctx context.Context, id int64, patch Patch) (contacts.Contact, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return contacts.Contact{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c, err := getContact(ctx, tx, id)
	if err != nil {
		return contacts.Contact{}, err
	}
	patch.Apply(&c.Fields)

	f := c.Fields
	if _, err := tx.ExecContext(ctx, `UPDATE contacts SET
		nombre = ?, apellido = ?, telefono = ?, correo_electronico = ?, calle = ?, ciudad = ?,
		estado = ?, empresa = ?, cargo = ?, notas = ?, fecha_cumpleanos = ?
		WHERE id = ?`,
		f.FirstName, f.LastName, f.Phone, f.Email, f.Street, f.City, f.State, f.Company, f.Title, f.Notes, f.Birthday, id); err != nil {
		return contacts.Contact{}, fmt.Errorf("update contact %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return contacts.Contact{}, fmt.Errorf("commit update: %w", err)
	}
	return c, nil
}

func (s *SQLite) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
