package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

func TestEnsureForeignKeysEnabledDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "plain path", dsn: "app.db", want: "app.db?_fk=1"},
		{name: "existing query", dsn: "app.db?cache=shared", want: "app.db?cache=shared&_fk=1"},
		{name: "already set", dsn: "app.db?_fk=0", want: "app.db?_fk=0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ensureForeignKeysEnabledDSN(tc.dsn); got != tc.want {
				t.Fatalf("ensureForeignKeysEnabledDSN(%q) = %q, want %q", tc.dsn, got, tc.want)
			}
		})
	}
}

func TestMigrations(t *testing.T) {
	database := newTestDB(t)

	version, dirty, err := database.MigrationVersion()
	if err != nil {
		t.Fatalf("migration version: %v", err)
	}
	if version != 2 || dirty {
		t.Fatalf("version = %d dirty = %v, want 2 clean", version, dirty)
	}

	if err := database.MigrateDown(); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := database.MigrateUp(); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}
}

func TestAvailabilityDocumentCascade(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if err := database.Queries.UpsertMentor(ctx, UpsertMentorParams{ID: "m1", Name: "Ada"}); err != nil {
		t.Fatalf("upsert mentor: %v", err)
	}
	if err := database.Queries.UpsertAvailabilityDocument(ctx, UpsertAvailabilityDocumentParams{
		MentorID:      "m1",
		SchemaVersion: 1,
		Payload:       `{"availability": null}`,
	}); err != nil {
		t.Fatalf("upsert document: %v", err)
	}

	if _, err := database.ExecContext(ctx, "DELETE FROM mentors WHERE id = ?", "m1"); err != nil {
		t.Fatalf("delete mentor: %v", err)
	}
	if _, err := database.Queries.GetAvailabilityDocument(ctx, "m1"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected document to cascade, got %v", err)
	}
}

func TestDocumentRequiresMentor(t *testing.T) {
	database := newTestDB(t)

	err := database.Queries.UpsertAvailabilityDocument(context.Background(), UpsertAvailabilityDocumentParams{
		MentorID:      "ghost",
		SchemaVersion: 1,
		Payload:       "{}",
	})
	if err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := database.RunInTx(ctx, func(tx *DB) error {
		if err := tx.Queries.UpsertMentor(ctx, UpsertMentorParams{ID: "m2", Name: "Grace"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := database.Queries.GetMentor(ctx, "m2"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected rollback, got %v", err)
	}
}
