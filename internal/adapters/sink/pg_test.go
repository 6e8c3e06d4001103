package sink

import (
	"context"
	"errors"
	"strings"
	"testing"

	perr "gitcensus/internal/platform/errors"
	"gitcensus/internal/platform/logger"
	"gitcensus/internal/platform/store"
	"gitcensus/internal/services/census/domain"
)

type execCall struct {
	sql  string
	args []any
}

type fakeTag struct{ n int64 }

func (f fakeTag) String() string      { return "EXEC" }
func (f fakeTag) RowsAffected() int64 { return f.n }

// fakeDB records Exec calls and runs Tx callbacks against itself.
type fakeDB struct {
	execs   []execCall
	execErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return fakeTag{n: int64(len(args) / 10)}, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) store.Row { return nil }

func (f *fakeDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error { return fn(f) }

func TestNewPostgresValidates(t *testing.T) {
	if _, err := NewPostgres(nil, "census_rows"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("nil db: %v", err)
	}
	if _, err := NewPostgres(&fakeDB{}, "bad;drop"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad ident: %v", err)
	}
	if _, err := NewPostgres(&fakeDB{}, "census_rows"); err != nil {
		t.Fatalf("good: %v", err)
	}
}

func TestPostgresWrite(t *testing.T) {
	db := &fakeDB{}
	s, err := NewPostgres(db, "census_rows")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := logger.WithRun(context.Background(), "run-1")
	if err := s.Write(ctx, sampleRows()); err != nil {
		t.Fatalf("write: %v", err)
	}

	if len(db.execs) != 2 {
		t.Fatalf("execs = %d, want ddl + 1 insert", len(db.execs))
	}
	if !strings.Contains(db.execs[0].sql, "CREATE TABLE IF NOT EXISTS census_rows") {
		t.Fatalf("first exec not ddl: %s", db.execs[0].sql)
	}
	ins := db.execs[1]
	if !strings.Contains(ins.sql, "INSERT INTO census_rows") {
		t.Fatalf("insert sql: %s", ins.sql)
	}
	if len(ins.args) != 20 {
		t.Fatalf("args = %d, want 2 rows x 10", len(ins.args))
	}
	if ins.args[0] != int64(1) || ins.args[3] != "dev1" {
		t.Fatalf("arg order: %v", ins.args[:10])
	}
	if !strings.Contains(ins.sql, "$20") || strings.Contains(ins.sql, "$21") {
		t.Fatalf("placeholder count wrong: %s", ins.sql)
	}
	if ins.args[9] != "run-1" {
		t.Fatalf("run id arg = %v", ins.args[9])
	}
}

func TestPostgresWriteChunks(t *testing.T) {
	db := &fakeDB{}
	s, err := NewPostgres(db, "census_rows")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rows := make([]domain.Row, insertChunk+1)
	for i := range rows {
		rows[i] = domain.Row{RepoID: int64(i), RepoName: "r", RepoType: "individual", ContributorLogin: "u"}
	}
	if err := s.Write(context.Background(), rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(db.execs) != 3 {
		t.Fatalf("execs = %d, want ddl + 2 chunks", len(db.execs))
	}
	if got := len(db.execs[2].args); got != 10 {
		t.Fatalf("tail chunk args = %d, want 10", got)
	}
}

func TestPostgresWriteFailureIsCoded(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection refused")}
	s, _ := NewPostgres(db, "census_rows")

	err := s.Write(context.Background(), sampleRows())
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v, want db code", err)
	}
}
