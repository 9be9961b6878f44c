package postgresdb

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestHandlePgError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, ErrDBNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), ErrDBNotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolation}, ErrDBDuplicatedEntry},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolation}, ErrDBForeignKey},
		{"bad uuid", &pgconn.PgError{Code: invalidTextRep}, ErrDBInvalidInput},
		{"undefined table", &pgconn.PgError{Code: undefinedTable}, ErrUndefinedTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandlePgError(tt.in)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Fatalf("HandlePgError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	other := errors.New("connection reset")
	if got := HandlePgError(other); got != other {
		t.Fatalf("unknown errors should pass through, got %v", got)
	}
}

func TestMigrationFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"pgmigrations/002_b.sql": {Data: []byte("select 2;")},
		"pgmigrations/001_a.sql": {Data: []byte("select 1;")},
		"pgmigrations/README.md": {Data: []byte("docs")},
		"pgmigrations/010_c.sql": {Data: []byte("select 10;")},
	}

	files, err := MigrationFiles(fsys, "pgmigrations")
	if err != nil {
		t.Fatalf("MigrationFiles: %v", err)
	}

	want := []string{"001_a.sql", "002_b.sql", "010_c.sql"}
	if fmt.Sprint(files) != fmt.Sprint(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestChecksumStable(t *testing.T) {
	a := Checksum([]byte("create table x();"))
	if len(a) != 64 {
		t.Fatalf("checksum length = %d, want 64", len(a))
	}
	if a != Checksum([]byte("create table x();")) {
		t.Fatal("checksum is not deterministic")
	}
	if a == Checksum([]byte("create table y();")) {
		t.Fatal("different content produced the same checksum")
	}
}

func TestCompactSQL(t *testing.T) {
	in := `
		SELECT task_id
		FROM tasks
		WHERE created_by = @user_id OR assigned_to = ( @user_id )
	`
	want := "SELECT task_id FROM tasks WHERE created_by = @user_id OR assigned_to =(@user_id)"
	if got := compactSQL(in); got != want {
		t.Fatalf("compactSQL = %q, want %q", got, want)
	}
}
