package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the draft database at path and
// migrates it to the latest schema.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create drafts dir: %w", err)
		}
	}
	if err := RunMigrations(path, logger); err != nil {
		return nil, err
	}
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open drafts db: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func openDB(path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(ctx context.Context, productID int) (*Draft, error) {
	const draftQuery = `SELECT flavor_id, size_id, updated_at FROM drafts WHERE product_id = ?`

	var (
		flavor, size sql.NullInt64
		updated      int64
	)
	err := s.db.QueryRowContext(ctx, draftQuery, productID).Scan(&flavor, &size, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft %d: %w", productID, err)
	}

	d := Draft{ProductID: productID, Selection: customizer.NewSelection(), UpdatedAt: time.Unix(0, updated).UTC()}
	d.Selection.FlavorID = nullableInt(flavor)
	d.Selection.SizeID = nullableInt(size)

	items, err := s.items(ctx, productID)
	if err != nil {
		return nil, err
	}
	d.Selection.Quantities = items
	return &d, nil
}

func (s *SQLiteStore) items(ctx context.Context, productID int) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT option_id, quantity FROM draft_items WHERE product_id = ?`, productID)
	if err != nil {
		return nil, fmt.Errorf("get draft items %d: %w", productID, err)
	}
	defer rows.Close()

	out := map[int]int{}
	for rows.Next() {
		var id, qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		out[id] = qty
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Put(ctx context.Context, d *Draft) (err error) {
	if d.Selection.IsEmpty() {
		return s.Delete(ctx, d.ProductID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	d.UpdatedAt = s.now().UTC()

	const upsertDraftSQL = `
INSERT INTO drafts (product_id, flavor_id, size_id, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (product_id) DO UPDATE
SET flavor_id = excluded.flavor_id, size_id = excluded.size_id, updated_at = excluded.updated_at
`
	if _, err = tx.ExecContext(ctx, upsertDraftSQL,
		d.ProductID, intOrNull(d.Selection.FlavorID), intOrNull(d.Selection.SizeID), d.UpdatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("put draft %d: %w", d.ProductID, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM draft_items WHERE product_id = ?`, d.ProductID); err != nil {
		return err
	}

	if len(d.Selection.Quantities) > 0 {
		stmt, perr := tx.PrepareContext(ctx, `INSERT INTO draft_items (product_id, option_id, quantity) VALUES (?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer stmt.Close()

		for _, id := range d.Selection.OptionIDs() {
			if _, err = stmt.ExecContext(ctx, d.ProductID, id, d.Selection.Quantities[id]); err != nil {
				return fmt.Errorf("put draft item %d/%d: %w", d.ProductID, id, err)
			}
		}
	}

	err = tx.Commit()
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, productID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE product_id = ?`, productID)
	return err
}

func (s *SQLiteStore) List(ctx context.Context) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT product_id FROM drafts ORDER BY updated_at DESC, product_id`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Draft, 0, len(ids))
	for _, id := range ids {
		d, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM drafts`)
	return err
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func intOrNull(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
