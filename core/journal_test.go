package core

import (
	"context"
	"testing"

	"github.com/okvee/rpctoast/types"
)

func testRecord(id types.InvocationID, name string, startedAt int64) *types.InvocationRecord {
	return &types.InvocationRecord{
		ID:         id,
		Name:       name,
		StartedAt:  startedAt,
		FinishedAt: startedAt + 1,
		Status:     types.StatusOK,
	}
}

func TestFsJournal_AppendGet(t *testing.T) {
	journal, err := NewFsJournal(t.TempDir())
	if err != nil {
		t.Fatalf("NewFsJournal() error = %v", err)
	}
	ctx := context.Background()

	rec := testRecord("inv-1", "ping", 100)
	if err := journal.Append(ctx, rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := journal.Get(ctx, "inv-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "ping" || got.StartedAt != 100 || got.Status != types.StatusOK {
		t.Errorf("Get() = %+v", got)
	}
}

func TestFsJournal_AppendRequiresID(t *testing.T) {
	journal, err := NewFsJournal(t.TempDir())
	if err != nil {
		t.Fatalf("NewFsJournal() error = %v", err)
	}

	if err := journal.Append(context.Background(), &types.InvocationRecord{Name: "ping"}); err == nil {
		t.Fatal("Append() expected error for record without id")
	}
}

func TestFsJournal_ListOrdered(t *testing.T) {
	journal, err := NewFsJournal(t.TempDir())
	if err != nil {
		t.Fatalf("NewFsJournal() error = %v", err)
	}
	ctx := context.Background()

	for _, rec := range []*types.InvocationRecord{
		testRecord("inv-b", "second", 200),
		testRecord("inv-a", "first", 100),
		testRecord("inv-c", "third", 300),
	} {
		if err := journal.Append(ctx, rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	recs, err := journal.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(recs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if recs[i].Name != want {
			t.Errorf("List()[%d].Name = %q, want %q", i, recs[i].Name, want)
		}
	}
}

func TestFsJournal_EraseAndClear(t *testing.T) {
	journal, err := NewFsJournal(t.TempDir())
	if err != nil {
		t.Fatalf("NewFsJournal() error = %v", err)
	}
	ctx := context.Background()

	journal.Append(ctx, testRecord("inv-1", "a", 100))
	journal.Append(ctx, testRecord("inv-2", "b", 200))

	if err := journal.Erase(ctx, "inv-1"); err != nil {
		t.Fatalf("Erase() error = %v", err)
	}
	// erasing a missing record is not an error
	if err := journal.Erase(ctx, "inv-1"); err != nil {
		t.Fatalf("repeated Erase() error = %v", err)
	}

	recs, _ := journal.List(ctx)
	if len(recs) != 1 {
		t.Fatalf("List() returned %d records after erase, want 1", len(recs))
	}

	if err := journal.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	recs, _ = journal.List(ctx)
	if len(recs) != 0 {
		t.Errorf("List() returned %d records after clear, want 0", len(recs))
	}
}
