package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wgross/treesor/pkg/types"
)

// Columns implements types.ColumnStore. Column definitions live in the
// columns collection; each node's values live in one node_values document
// whose fields are named after the columns' integer ids.
type Columns struct {
	db *sql.DB
}

type columnRow struct {
	id int64
	types.Column
}

// fieldPath is the JSON path of a column's field in a value document.
func (r columnRow) fieldPath() string {
	return fmt.Sprintf(`$."%d"`, r.id)
}

func (c *Columns) lookup(q querier, name string) (columnRow, bool, error) {
	row := columnRow{Column: types.Column{Name: name}}
	var typeName string
	err := q.QueryRow("SELECT id, type_name FROM columns WHERE name = ?", name).Scan(&row.id, &typeName)
	if errors.Is(err, sql.ErrNoRows) {
		return columnRow{}, false, nil
	}
	if err != nil {
		return columnRow{}, false, fmt.Errorf("loading column %q: %w", name, err)
	}
	kind, err := types.ParseValueKind(typeName)
	if err != nil {
		return columnRow{}, false, fmt.Errorf("column %q: %w", name, err)
	}
	row.Kind = kind
	return row, true, nil
}

func (c *Columns) mustLookup(q querier, name string) (columnRow, error) {
	row, ok, err := c.lookup(q, name)
	if err != nil {
		return columnRow{}, err
	}
	if !ok {
		return columnRow{}, fmt.Errorf("column %q: %w", name, types.ErrColumnNotFound)
	}
	return row, nil
}

// CreateColumn implements types.ColumnStore.
func (c *Columns) CreateColumn(col types.Column) error {
	return withTx(c.db, func(tx *sql.Tx) error {
		if _, ok, err := c.lookup(tx, col.Name); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("%w: column %q", types.ErrDuplicateDefinition, col.Name)
		}
		if _, err := tx.Exec("INSERT INTO columns (name, type_name) VALUES (?, ?)", col.Name, string(col.Kind)); err != nil {
			return fmt.Errorf("inserting column %q: %w", col.Name, err)
		}
		return nil
	})
}

// Column implements types.ColumnStore.
func (c *Columns) Column(name string) (types.Column, bool, error) {
	row, ok, err := c.lookup(c.db, name)
	return row.Column, ok, err
}

// Columns implements types.ColumnStore.
func (c *Columns) Columns() ([]types.Column, error) {
	rows, err := c.db.Query("SELECT name, type_name FROM columns ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}
	defer rows.Close()
	var out []types.Column
	for rows.Next() {
		var name, typeName string
		if err := rows.Scan(&name, &typeName); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		kind, err := types.ParseValueKind(typeName)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out = append(out, types.Column{Name: name, Kind: kind})
	}
	return out, rows.Err()
}

// RemoveColumn implements types.ColumnStore. The column's field is dropped
// from every value document.
func (c *Columns) RemoveColumn(name string) (bool, error) {
	removed := false
	err := withTx(c.db, func(tx *sql.Tx) error {
		row, ok, err := c.lookup(tx, name)
		if err != nil || !ok {
			return err
		}
		if _, err := tx.Exec("DELETE FROM columns WHERE id = ?", row.id); err != nil {
			return fmt.Errorf("deleting column %q: %w", name, err)
		}
		if _, err := tx.Exec("UPDATE node_values SET doc = json_remove(doc, ?)", row.fieldPath()); err != nil {
			return fmt.Errorf("dropping values of column %q: %w", name, err)
		}
		removed = true
		return nil
	})
	return removed, err
}

// RenameColumn implements types.ColumnStore. Values are keyed by column id
// and are untouched.
func (c *Columns) RenameColumn(oldName, newName string) error {
	return withTx(c.db, func(tx *sql.Tx) error {
		row, err := c.mustLookup(tx, oldName)
		if err != nil {
			return err
		}
		if _, ok, err := c.lookup(tx, newName); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("%w: column %q", types.ErrDuplicateDefinition, newName)
		}
		if _, err := tx.Exec("UPDATE columns SET name = ? WHERE id = ?", newName, row.id); err != nil {
			return fmt.Errorf("renaming column %q: %w", oldName, err)
		}
		return nil
	})
}

// SetValue implements types.ColumnStore. The node's value document is
// upserted with the column's field merged in.
func (c *Columns) SetValue(name string, id uuid.UUID, v any) error {
	row, err := c.mustLookup(c.db, name)
	if err != nil {
		return err
	}
	raw, err := row.Kind.Encode(v)
	if err != nil {
		return fmt.Errorf("column %q: %w", name, err)
	}
	field := fmt.Sprintf("%d", row.id)
	_, err = c.db.Exec(`INSERT INTO node_values (id, doc) VALUES (?, json_object(?, json(?)))
		ON CONFLICT(id) DO UPDATE SET doc = json_set(doc, ?, json(?))`,
		id.String(), field, string(raw), row.fieldPath(), string(raw))
	if err != nil {
		return fmt.Errorf("setting %q of %s: %w", name, id, err)
	}
	return nil
}

// Value implements types.ColumnStore.
func (c *Columns) Value(name string, id uuid.UUID) (any, bool, error) {
	row, err := c.mustLookup(c.db, name)
	if err != nil {
		return nil, false, err
	}
	var raw sql.NullString
	err = c.db.QueryRow("SELECT doc -> ? FROM node_values WHERE id = ?", row.fieldPath(), id.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !raw.Valid) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %q of %s: %w", name, id, err)
	}
	v, err := row.Kind.Decode([]byte(raw.String))
	if err != nil {
		return nil, false, fmt.Errorf("column %q: %w", name, err)
	}
	return v, true, nil
}

// ClearValue implements types.ColumnStore. Only the field is removed; the
// value document stays even when it becomes empty.
func (c *Columns) ClearValue(name string, id uuid.UUID) (bool, error) {
	row, err := c.mustLookup(c.db, name)
	if err != nil {
		return false, err
	}
	res, err := c.db.Exec(`UPDATE node_values SET doc = json_remove(doc, ?)
		WHERE id = ? AND json_type(doc, ?) IS NOT NULL`,
		row.fieldPath(), id.String(), row.fieldPath())
	if err != nil {
		return false, fmt.Errorf("clearing %q of %s: %w", name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ClearNode implements types.ColumnStore.
func (c *Columns) ClearNode(id uuid.UUID) error {
	if _, err := c.db.Exec("DELETE FROM node_values WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("clearing values of %s: %w", id, err)
	}
	return nil
}
