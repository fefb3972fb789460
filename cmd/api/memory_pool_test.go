package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gopkg.in/guregu/null.v3"

	"github.com/Lelo88/inventory-api/internal/items"
)

// memoryPool simula la tabla items en memoria, reconociendo los statements del repositorio.
type memoryPool struct {
	fakePool
	nextID int64
	rows   map[int64]items.Item
}

func newMemoryPool() *memoryPool {
	return &memoryPool{rows: map[int64]items.Item{}}
}

func (pool *memoryPool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	switch {
	case strings.Contains(sql, "CREATE TABLE"):
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	case strings.Contains(sql, "DELETE FROM items"):
		id := arguments[0].(int64)
		if _, ok := pool.rows[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(pool.rows, id)
		return pgconn.NewCommandTag("DELETE 1"), nil
	case strings.Contains(sql, "UPDATE items"):
		id := arguments[3].(int64)
		item, ok := pool.rows[id]
		if !ok {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		name := arguments[0].(null.String)
		description := arguments[1].(null.String)
		price := arguments[2].(null.Int)
		merge := strings.Contains(sql, "COALESCE")
		if !merge || name.Valid {
			item.Name = name
		}
		if !merge || description.Valid {
			item.Description = description
		}
		if !merge || price.Valid {
			item.Price = price
		}
		pool.rows[id] = item
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", sql)
}

func (pool *memoryPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	switch {
	case strings.Contains(sql, "INSERT INTO items"):
		pool.nextID++
		item := items.Item{
			ID:          pool.nextID,
			Name:        null.StringFromPtr(args[0].(*string)),
			Description: null.StringFromPtr(args[1].(*string)),
			Price:       null.IntFromPtr(args[2].(*int64)),
		}
		pool.rows[item.ID] = item
		return memoryRow{item: item}
	case strings.Contains(sql, "WHERE id = $1"):
		item, ok := pool.rows[args[0].(int64)]
		if !ok {
			return memoryRow{err: pgx.ErrNoRows}
		}
		return memoryRow{item: item}
	}
	return memoryRow{err: fmt.Errorf("unexpected query row: %s", sql)}
}

func (pool *memoryPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ids := make([]int64, 0, len(pool.rows))
	for id := range pool.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := &memoryRows{}
	for _, id := range ids {
		rows.items = append(rows.items, pool.rows[id])
	}
	return rows, nil
}

type memoryRow struct {
	item items.Item
	err  error
}

func (row memoryRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	return scanItem(row.item, dest)
}

func scanItem(item items.Item, dest []any) error {
	if len(dest) != 4 {
		return errors.New("expected 4 scan targets")
	}
	*dest[0].(*int64) = item.ID
	*dest[1].(*null.String) = item.Name
	*dest[2].(*null.String) = item.Description
	*dest[3].(*null.Int) = item.Price
	return nil
}

type memoryRows struct {
	items []items.Item
	idx   int
}

func (rows *memoryRows) Close()                                       {}
func (rows *memoryRows) Err() error                                   { return nil }
func (rows *memoryRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (rows *memoryRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (rows *memoryRows) Values() ([]any, error)                       { return nil, errors.New("not implemented") }
func (rows *memoryRows) RawValues() [][]byte                          { return nil }
func (rows *memoryRows) Conn() *pgx.Conn                              { return nil }

func (rows *memoryRows) Next() bool {
	if rows.idx >= len(rows.items) {
		return false
	}
	rows.idx++
	return true
}

func (rows *memoryRows) Scan(dest ...any) error {
	return scanItem(rows.items[rows.idx-1], dest)
}
