package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"daylist-cli/internal/model"
	"daylist-cli/internal/ordering"
)

const taskColumns = `id, date, title, notes, priority, sort_order, created_at_unixms, updated_at_unixms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (model.Task, error) {
	var (
		t                  model.Task
		priority           string
		order              sql.NullInt64
		createdMs, updated int64
	)
	if err := r.Scan(&t.ID, &t.Date, &t.Title, &t.Notes, &priority, &order, &createdMs, &updated); err != nil {
		return model.Task{}, err
	}
	t.Priority = model.Priority(priority)
	if order.Valid {
		t = t.WithOrder(int(order.Int64))
	}
	t.CreatedAt = time.UnixMilli(createdMs).UTC()
	t.UpdatedAt = time.UnixMilli(updated).UTC()
	return t, nil
}

func nullOrder(t model.Task) sql.NullInt64 {
	if t.Order == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*t.Order), Valid: true}
}

func normalizeTask(t *model.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Date = strings.TrimSpace(t.Date)
	if t.Title == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidTask)
	}
	if !model.ValidDate(t.Date) {
		return fmt.Errorf("%w: date %q (expected YYYY-MM-DD)", ErrInvalidTask, t.Date)
	}
	p, ok := model.ParsePriority(string(t.Priority))
	if !ok {
		return fmt.Errorf("%w: priority %q (expected high|medium|low)", ErrInvalidTask, t.Priority)
	}
	t.Priority = p
	return nil
}

// CreateTask inserts a new task. The order hint is always left unset: tasks
// only get one when their date list is reordered.
func (d *DB) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if err := normalizeTask(&t); err != nil {
		return model.Task{}, err
	}
	if strings.TrimSpace(t.ID) == "" {
		id, err := newRandomID(taskIDPrefix)
		if err != nil {
			return model.Task{}, err
		}
		t.ID = id
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	t.Order = nil
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := d.sql.ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, t.Title, t.Notes, string(t.Priority), nullOrder(t), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (d *DB) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, strings.TrimSpace(id))
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// ListTasks returns the tasks of one date (every date when date is empty) in
// display order.
func (d *DB) ListTasks(ctx context.Context, date string) ([]model.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks`
	args := []any{}
	if date = strings.TrimSpace(date); date != "" {
		q += ` WHERE date = ?`
		args = append(args, date)
	}
	// Stable base order so ties in Resolve come out the same on every call.
	q += ` ORDER BY date, created_at_unixms, id`

	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if date != "" {
		return ordering.Resolve(out), nil
	}
	return out, nil
}

// UpdateTask replaces the editable fields (date, title, notes, priority).
// The order hint is owned by UpdateOrder and is not touched here.
func (d *DB) UpdateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if err := normalizeTask(&t); err != nil {
		return model.Task{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	res, err := d.sql.ExecContext(ctx, `UPDATE tasks SET date = ?, title = ?, notes = ?, priority = ?, updated_at_unixms = ? WHERE id = ?`,
		t.Date, t.Title, t.Notes, string(t.Priority), now.UnixMilli(), t.ID)
	if err != nil {
		return model.Task{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Task{}, err
	} else if n == 0 {
		return model.Task{}, ErrNotFound
	}
	return d.GetTask(ctx, t.ID)
}

func (d *DB) DeleteTask(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOrder sets one task's order hint and modification time, reporting
// whether a task with that id exists. Each call is a single statement, so it
// is atomic on its own; concurrent writers to the same id are last-write-wins.
func (d *DB) UpdateOrder(ctx context.Context, id string, order int, updatedAt time.Time) (bool, error) {
	res, err := d.sql.ExecContext(ctx, `UPDATE tasks SET sort_order = ?, updated_at_unixms = ? WHERE id = ?`,
		order, updatedAt.UTC().UnixMilli(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
