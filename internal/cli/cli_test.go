package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/funsql/internal/catalog"
)

const testCatalog = `
functions:
  - name: abs
    group: builtin
    mode: scalar
    signatures:
      - arguments:
          - kind: FIXED
            type: {kind: INT64}
        result_type:
          kind: FIXED
          type: {kind: INT64}
        context_id: 1
      - arguments:
          - kind: FIXED
            type: {kind: DOUBLE}
        result_type:
          kind: FIXED
          type: {kind: DOUBLE}
        context_id: 2
procedures:
  - name: report.refresh
    signature:
      arguments:
        - kind: FIXED
          type: {kind: STRING}
          options:
            argument_name: day
            procedure_argument_mode: IN
      result_type:
        kind: VOID
`

const brokenCatalog = `
functions:
  - name: good
    signatures:
      - arguments: []
        result_type:
          kind: FIXED
          type: {kind: BOOL}
  - name: bad
    signatures:
      - arguments:
          - kind: RELATION
        result_type:
          kind: FIXED
          type: {kind: INT64}
`

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "catalog.yaml", testCatalog)
	cfg := writeFile(t, dir, "funsql.yaml", "catalogs:\n  - catalog.yaml\n")

	out, _, err := runCommand(t, "check", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"PASS builtin:abs (2 signatures)",
		"PASS report.refresh",
		"2 declarations loaded, 0 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckCommandReportsErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", brokenCatalog)
	cfg := writeFile(t, dir, "funsql.yaml", "product_mode: internal\n")

	out, _, err := runCommand(t, "check", "--config", cfg, path)
	if err == nil {
		t.Fatal("expected an error for a broken catalog")
	}
	if !strings.Contains(err.Error(), "catalog check failed: 1 error(s)") {
		t.Errorf("error = %q, want a failed check", err)
	}
	for _, want := range []string{
		"PASS good",
		"FAIL",
		"Relation arguments are only allowed in table-valued functions",
		"1 declarations loaded, 1 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckCommandWithoutCatalogs(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "funsql.yaml", "product_mode: internal\n")

	_, _, err := runCommand(t, "check", "--config", cfg)
	if err == nil {
		t.Fatal("expected an error without catalog files")
	}
	if !strings.Contains(err.Error(), "no catalog files") {
		t.Errorf("error = %q, want it to mention missing catalogs", err)
	}
}

func TestPrintCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", testCatalog)
	cfg := writeFile(t, dir, "funsql.yaml", "product_mode: internal\n")

	out, _, err := runCommand(t, "print", "--config", cfg, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"ABS(INT64) -> INT64",
		"ABS(DOUBLE) -> DOUBLE",
		"report.refresh(STRING) -> <void>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintCommandSQL(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", testCatalog)
	cfg := writeFile(t, dir, "funsql.yaml", "product_mode: internal\n")

	out, _, err := runCommand(t, "print", "--sql", "--config", cfg, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"ABS(INT64); ABS(DOUBLE)",
		"CREATE PROCEDURE report.refresh(IN day STRING)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "catalog.yaml", testCatalog)
	cfg := writeFile(t, dir, "funsql.yaml", "catalogs:\n  - catalog.yaml\nstore_path: builds.db\n")

	out, _, err := runCommand(t, "build", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "recorded build ") {
		t.Fatalf("output missing build id:\n%s", out)
	}
	id := strings.Fields(out)[2]

	store, err := catalog.OpenStore(filepath.Join(dir, "builds.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()
	latest, err := store.LatestBuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != id {
		t.Errorf("LatestBuild().ID = %q, want %q", latest.ID, id)
	}
	if latest.Signatures != 3 {
		t.Errorf("build has %d signatures, want 3", latest.Signatures)
	}
	if !strings.Contains(latest.Source, "catalog.yaml") {
		t.Errorf("Source = %q, want it to name the catalog", latest.Source)
	}

	listOut, _, err := runCommand(t, "list", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(listOut, id) || !strings.Contains(listOut, "(3 signatures)") {
		t.Errorf("list output missing the build:\n%s", listOut)
	}

	verboseOut, _, err := runCommand(t, "list", "-v", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"ABS(INT64) -> INT64",
		"CREATE PROCEDURE report.refresh(IN day STRING)",
	} {
		if !strings.Contains(verboseOut, want) {
			t.Errorf("verbose list missing %q:\n%s", want, verboseOut)
		}
	}
}

func TestListCommandEmptyStore(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "funsql.yaml", "store_path: builds.db\n")

	out, _, err := runCommand(t, "list", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "no builds recorded") {
		t.Errorf("output = %q, want it to report an empty store", out)
	}
}

func TestBuildCommandRefusesBrokenCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", brokenCatalog)
	cfg := writeFile(t, dir, "funsql.yaml", "store_path: builds.db\n")

	_, errOut, err := runCommand(t, "build", "--config", cfg, path)
	if err == nil {
		t.Fatal("expected an error for a broken catalog")
	}
	if !strings.Contains(errOut, "Relation arguments are only allowed in table-valued functions") {
		t.Errorf("stderr missing the rejection reason:\n%s", errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "builds.db")); !os.IsNotExist(err) {
		t.Error("store file was created for a broken catalog")
	}
}

func TestServeCommandBadAddress(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "funsql.yaml", "listen_addr: \"localhost:999999\"\n")

	_, _, err := runCommand(t, "serve", "--config", cfg)
	if err == nil {
		t.Fatal("expected an error for an unusable listen address")
	}
}

func TestCatalogPathsResolveAgainstConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "catalog.yaml", testCatalog)
	cfg := writeFile(t, dir, "funsql.yaml", "catalogs:\n  - catalog.yaml\n")

	env, err := loadEnvironment(&RootOptions{Config: cfg})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paths, err := env.catalogPaths(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(dir, "catalog.yaml") {
		t.Errorf("catalogPaths(nil) = %v, want the resolved catalog", paths)
	}

	explicit, err := env.catalogPaths([]string{"other.yaml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(explicit) != 1 || explicit[0] != "other.yaml" {
		t.Errorf("catalogPaths(args) = %v, want the explicit argument", explicit)
	}
}
