package store

import (
	"context"
	"errors"
	"testing"
)

type fakeTag struct{ affected int64 }

func (f fakeTag) String() string      { return "FAKE" }
func (f fakeTag) RowsAffected() int64 { return f.affected }

type fakeRow struct {
	val int
	err error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	if len(dest) == 1 {
		if p, ok := dest[0].(*int); ok {
			*p = f.val
		}
	}
	return nil
}

type fakeQuerier struct {
	affected int64
	execErr  error
	row      fakeRow
	lastSQL  string
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.lastSQL = sql
	return fakeTag{affected: f.affected}, f.execErr
}

func (f *fakeQuerier) Query(_ context.Context, _ string, _ ...any) (Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) Row {
	f.lastSQL = sql
	return f.row
}

func TestExecOne(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{affected: 1}
	if err := ExecOne(ctx, q, "UPDATE x"); err != nil {
		t.Fatalf("ExecOne(1 affected) = %v", err)
	}

	q = &fakeQuerier{affected: 2}
	if err := ExecOne(ctx, q, "UPDATE x"); err == nil {
		t.Fatalf("ExecOne(2 affected) should fail")
	}

	q = &fakeQuerier{execErr: errors.New("boom")}
	if err := ExecOne(ctx, q, "UPDATE x"); err == nil {
		t.Fatalf("ExecOne should surface exec errors")
	}
}

func TestScalar(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{row: fakeRow{val: 42}}
	got, err := Scalar[int](ctx, q, "SELECT count(*)")
	if err != nil || got != 42 {
		t.Fatalf("Scalar = (%d, %v), want (42, nil)", got, err)
	}

	q = &fakeQuerier{row: fakeRow{err: errors.New("scan fail")}}
	if _, err := Scalar[int](ctx, q, "SELECT 1"); err == nil {
		t.Fatalf("Scalar should surface scan errors")
	}
}
