package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

type Mentor struct {
	ID        string
	Name      string
	Email     sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AvailabilityDocument struct {
	MentorID      string
	SchemaVersion int64
	Payload       string
	UpdatedAt     time.Time
}

const upsertMentor = `
INSERT INTO mentors (id, name, email)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    email = excluded.email,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertMentorParams struct {
	ID    string
	Name  string
	Email sql.NullString
}

func (q *Queries) UpsertMentor(ctx context.Context, arg UpsertMentorParams) error {
	_, err := q.db.ExecContext(ctx, upsertMentor, arg.ID, arg.Name, arg.Email)
	return err
}

const getMentor = `
SELECT id, name, email, created_at, updated_at
FROM mentors
WHERE id = ?
`

func (q *Queries) GetMentor(ctx context.Context, id string) (Mentor, error) {
	row := q.db.QueryRowContext(ctx, getMentor, id)
	var m Mentor
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const listMentorsWithEmail = `
SELECT id, name, email, created_at, updated_at
FROM mentors
WHERE email IS NOT NULL AND email != ''
ORDER BY id
`

func (q *Queries) ListMentorsWithEmail(ctx context.Context) ([]Mentor, error) {
	rows, err := q.db.QueryContext(ctx, listMentorsWithEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Mentor
	for rows.Next() {
		var m Mentor
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertAvailabilityDocument = `
INSERT INTO availability_documents (mentor_id, schema_version, payload)
VALUES (?, ?, ?)
ON CONFLICT(mentor_id) DO UPDATE SET
    schema_version = excluded.schema_version,
    payload = excluded.payload,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertAvailabilityDocumentParams struct {
	MentorID      string
	SchemaVersion int64
	Payload       string
}

func (q *Queries) UpsertAvailabilityDocument(ctx context.Context, arg UpsertAvailabilityDocumentParams) error {
	_, err := q.db.ExecContext(ctx, upsertAvailabilityDocument, arg.MentorID, arg.SchemaVersion, arg.Payload)
	return err
}

const getAvailabilityDocument = `
SELECT mentor_id, schema_version, payload, updated_at
FROM availability_documents
WHERE mentor_id = ?
`

func (q *Queries) GetAvailabilityDocument(ctx context.Context, mentorID string) (AvailabilityDocument, error) {
	row := q.db.QueryRowContext(ctx, getAvailabilityDocument, mentorID)
	var d AvailabilityDocument
	err := row.Scan(&d.MentorID, &d.SchemaVersion, &d.Payload, &d.UpdatedAt)
	return d, err
}
