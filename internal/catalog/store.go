package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	_ "modernc.org/sqlite"

	"github.com/funvibe/funsql/internal/descpool"
	"github.com/funvibe/funsql/internal/signature"
	"github.com/funvibe/funsql/internal/types"
	"github.com/funvibe/funsql/internal/wire"
)

//go:embed schema.sql
var schemaSQL string

// Entity kinds of stored signature rows.
const (
	EntityFunction      = "function"
	EntityTableFunction = "table_function"
	EntityProcedure     = "procedure"
)

// Store persists catalog builds in a SQLite database, one row per
// signature, so deployments can list and inspect past catalog states.
type Store struct {
	db *sql.DB
}

// OpenStore creates or opens the build database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect store: %w", err)
	}
	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure store: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BuildInfo is one row of the builds table.
type BuildInfo struct {
	ID         string
	CreatedAt  time.Time
	Source     string
	Signatures int
}

// SignatureRow is one stored signature: the entity it belongs to, a
// displayable declaration and the wire-form JSON it round-trips through.
type SignatureRow struct {
	Name        string
	EntityKind  string
	Declaration string
	Wire        string
}

// WriteBuild stores a snapshot of the report's entities and returns the
// new build id. Ids are time-sortable UUIDv7 strings, so the newest
// build sorts last. pool may be nil; when set, its descriptor set is
// stored alongside the build so proto-typed signatures stay resolvable
// from the database alone.
func (s *Store) WriteBuild(ctx context.Context, source string, report *Report, mode types.ProductMode, pool *descpool.Pool) (string, error) {
	rows, err := signatureRows(report, mode)
	if err != nil {
		return "", fmt.Errorf("write build: %w", err)
	}
	var descriptors []byte
	if pool != nil {
		descriptors, err = proto.Marshal(pool.DescriptorSet())
		if err != nil {
			return "", fmt.Errorf("write build: descriptors: %w", err)
		}
	}
	id := uuid.Must(uuid.NewV7()).String()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write build: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO builds (id, created_at, source, descriptors) VALUES (?, ?, ?, ?)
	`, id, createdAt, source, descriptors); err != nil {
		return "", fmt.Errorf("write build: %w", err)
	}
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO signatures (build_id, name, entity_kind, declaration, wire)
			VALUES (?, ?, ?, ?, ?)
		`, id, row.Name, row.EntityKind, row.Declaration, row.Wire); err != nil {
			return "", fmt.Errorf("write build: signature %s: %w", row.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write build: commit: %w", err)
	}
	return id, nil
}

// Builds lists stored builds, newest first.
func (s *Store) Builds(ctx context.Context) ([]BuildInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.created_at, b.source, COUNT(s.build_id)
		FROM builds b
		LEFT JOIN signatures s ON s.build_id = b.id
		GROUP BY b.id
		ORDER BY b.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []BuildInfo
	for rows.Next() {
		var info BuildInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &createdAt, &info.Source, &info.Signatures); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan build %s: %w", info.ID, err)
		}
		builds = append(builds, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

// LatestBuild returns the newest build, or sql.ErrNoRows when the store
// is empty.
func (s *Store) LatestBuild(ctx context.Context) (BuildInfo, error) {
	var info BuildInfo
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT b.id, b.created_at, b.source, COUNT(s.build_id)
		FROM builds b
		LEFT JOIN signatures s ON s.build_id = b.id
		GROUP BY b.id
		ORDER BY b.id DESC
		LIMIT 1
	`).Scan(&info.ID, &createdAt, &info.Source, &info.Signatures)
	if err != nil {
		return BuildInfo{}, err
	}
	info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return BuildInfo{}, fmt.Errorf("scan build %s: %w", info.ID, err)
	}
	return info, nil
}

// BuildDescriptors rebuilds the descriptor pool stored with a build.
// Nil when the build was written without one.
func (s *Store) BuildDescriptors(ctx context.Context, buildID string) (*descpool.Pool, error) {
	var descriptors []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT descriptors FROM builds WHERE id = ?
	`, buildID).Scan(&descriptors)
	if err != nil {
		return nil, fmt.Errorf("query descriptors: %w", err)
	}
	if len(descriptors) == 0 {
		return nil, nil
	}
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(descriptors, &set); err != nil {
		return nil, fmt.Errorf("build %s: %w", buildID, err)
	}
	return descpool.FromDescriptorSet(&set)
}

// BuildSignatures returns the stored rows of one build in insertion
// order.
func (s *Store) BuildSignatures(ctx context.Context, buildID string) ([]SignatureRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, entity_kind, declaration, wire
		FROM signatures
		WHERE build_id = ?
		ORDER BY rowid ASC
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}
	defer rows.Close()

	var stored []SignatureRow
	for rows.Next() {
		var row SignatureRow
		if err := rows.Scan(&row.Name, &row.EntityKind, &row.Declaration, &row.Wire); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		stored = append(stored, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatures: %w", err)
	}
	return stored, nil
}

// signatureRows renders every entity of the report to its stored form.
func signatureRows(report *Report, mode types.ProductMode) ([]SignatureRow, error) {
	var rows []SignatureRow
	add := func(name, kind, declaration string, sig *signature.Signature) error {
		raw, err := wire.MarshalSignature(sig)
		if err != nil {
			return err
		}
		rows = append(rows, SignatureRow{
			Name:        name,
			EntityKind:  kind,
			Declaration: declaration,
			Wire:        string(raw),
		})
		return nil
	}
	for _, fn := range report.Functions {
		for _, sig := range fn.Signatures() {
			if err := add(fn.Name(), EntityFunction, sig.DebugString(fn.SQLName(), false), sig); err != nil {
				return nil, err
			}
		}
	}
	for _, tvf := range report.TableFunctions {
		decl := tvf.SQLDeclaration(tvf.Signature().ArgumentNames(), mode)
		if err := add(tvf.FullName(), EntityTableFunction, decl, tvf.Signature()); err != nil {
			return nil, err
		}
	}
	for _, proc := range report.Procedures {
		decl := proc.SQLDeclaration(proc.Signature().ArgumentNames(), mode)
		if err := add(proc.FullName(), EntityProcedure, decl, proc.Signature()); err != nil {
			return nil, err
		}
	}
	return rows, nil
}
