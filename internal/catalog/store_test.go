package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/funvibe/funsql/internal/types"
	"github.com/funvibe/funsql/internal/wire"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "builds.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func loadFullCatalog(t *testing.T) *Report {
	t.Helper()
	report := NewLoader(nil, nil, nil).LoadBytes([]byte(fullCatalog), "full.yaml")
	if !report.OK() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	return report
}

func TestStoreWriteBuild(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	id, err := store.WriteBuild(ctx, "full.yaml", loadFullCatalog(t), types.ProductInternal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	builds, err := store.Builds(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(builds) != 1 {
		t.Fatalf("got %d builds, want 1", len(builds))
	}
	b := builds[0]
	if b.ID != id {
		t.Errorf("ID = %q, want %q", b.ID, id)
	}
	if b.Source != "full.yaml" {
		t.Errorf("Source = %q, want %q", b.Source, "full.yaml")
	}
	if b.Signatures != 5 {
		t.Errorf("Signatures = %d, want 5", b.Signatures)
	}
	if time.Since(b.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt = %v, want recent", b.CreatedAt)
	}
}

func TestBuildSignatures(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	id, err := store.WriteBuild(ctx, "full.yaml", loadFullCatalog(t), types.ProductInternal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := store.BuildSignatures(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []SignatureRow{
		{Name: "abs", EntityKind: EntityFunction, Declaration: "ABS(INT64) -> INT64"},
		{Name: "abs", EntityKind: EntityFunction, Declaration: "ABS(DOUBLE) -> DOUBLE"},
		{Name: "count", EntityKind: EntityFunction, Declaration: "COUNT(<T1>) -> INT64"},
		{Name: "mylib.scan", EntityKind: EntityTableFunction,
			Declaration: "CREATE TABLE FUNCTION mylib.scan(TABLE<a INT64>)"},
		{Name: "report.refresh", EntityKind: EntityProcedure,
			Declaration: "CREATE PROCEDURE report.refresh(IN day STRING)"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, row := range rows {
		if row.Name != want[i].Name {
			t.Errorf("row %d: Name = %q, want %q", i, row.Name, want[i].Name)
		}
		if row.EntityKind != want[i].EntityKind {
			t.Errorf("row %d: EntityKind = %q, want %q", i, row.EntityKind, want[i].EntityKind)
		}
		if row.Declaration != want[i].Declaration {
			t.Errorf("row %d: Declaration = %q, want %q", i, row.Declaration, want[i].Declaration)
		}
		if _, err := wire.UnmarshalSignature([]byte(row.Wire), nil); err != nil {
			t.Errorf("row %d: stored wire does not decode: %v", i, err)
		}
	}

	sig, err := wire.UnmarshalSignature([]byte(rows[0].Wire), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sig.DebugString("ABS", false); got != rows[0].Declaration {
		t.Errorf("decoded wire renders %q, want %q", got, rows[0].Declaration)
	}
}

func TestLatestBuild(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.LatestBuild(ctx); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("LatestBuild on empty store = %v, want sql.ErrNoRows", err)
	}

	report := loadFullCatalog(t)
	if _, err := store.WriteBuild(ctx, "first.yaml", report, types.ProductInternal, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.WriteBuild(ctx, "second.yaml", report, types.ProductInternal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	latest, err := store.LatestBuild(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != second {
		t.Errorf("ID = %q, want %q", latest.ID, second)
	}
	if latest.Source != "second.yaml" {
		t.Errorf("Source = %q, want %q", latest.Source, "second.yaml")
	}

	builds, err := store.Builds(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(builds) != 2 {
		t.Fatalf("got %d builds, want 2", len(builds))
	}
	if builds[0].ID != second {
		t.Errorf("builds[0].ID = %q, want the newest build %q", builds[0].ID, second)
	}
}

func TestBuildDescriptors(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	pool := testPool(t)
	loader := NewLoader(pool, nil, nil)
	doc := `
functions:
  - name: make_row
    mode: scalar
    signatures:
      - result_type:
          kind: FIXED
          type:
            kind: PROTO
            proto_name: funsql.test.Row
`
	report := loader.LoadBytes([]byte(doc), "proto.yaml")
	if !report.OK() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}

	id, err := store.WriteBuild(ctx, "proto.yaml", report, types.ProductInternal, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored, err := store.BuildDescriptors(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored == nil {
		t.Fatalf("BuildDescriptors returned nil, want a pool")
	}
	if _, err := restored.FindMessage("funsql.test.Row"); err != nil {
		t.Errorf("FindMessage after restore: %v", err)
	}

	rows, err := store.BuildSignatures(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if _, err := wire.UnmarshalSignature([]byte(rows[0].Wire), restored); err != nil {
		t.Errorf("stored wire does not decode against the stored pool: %v", err)
	}

	bare, err := store.WriteBuild(ctx, "bare.yaml", &Report{}, types.ProductInternal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored, err := store.BuildDescriptors(ctx, bare); err != nil || restored != nil {
		t.Errorf("BuildDescriptors = (%v, %v), want (nil, nil)", restored, err)
	}
}

func TestOpenStoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "builds.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, err := store.WriteBuild(ctx, "full.yaml", loadFullCatalog(t), types.ProductInternal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reopened.Close()
	latest, err := reopened.LatestBuild(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != id {
		t.Errorf("ID = %q, want %q", latest.ID, id)
	}
}
