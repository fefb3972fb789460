package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX es lo que el repositorio necesita de la base. *pgxpool.Pool lo cumple,
// y en tests se reemplaza por un fake sin tocar Postgres.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UpdatePolicy decide qué se escribe en las columnas que el payload de update no trae.
type UpdatePolicy string

const (
	// UpdateOverwrite pisa las tres columnas con lo que vino en el payload.
	// Un campo omitido (o null) queda en NULL.
	UpdateOverwrite UpdatePolicy = "overwrite"
	// UpdateMerge solo pisa los campos presentes; los omitidos conservan su valor.
	UpdateMerge UpdatePolicy = "merge"
)

// ParseUpdatePolicy traduce el valor de configuración a una política.
func ParseUpdatePolicy(value string) (UpdatePolicy, error) {
	switch policy := UpdatePolicy(value); policy {
	case UpdateOverwrite, UpdateMerge:
		return policy, nil
	default:
		return "", fmt.Errorf("unknown update policy %q", value)
	}
}

func (policy UpdatePolicy) statement() string {
	if policy == UpdateMerge {
		return `
		UPDATE items
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price)
		WHERE id = $4;
	`
	}
	return `
		UPDATE items
		SET name = $1,
			description = $2,
			price = $3
		WHERE id = $4;
	`
}

// Postgres: string_data_right_truncation y numeric_value_out_of_range.
const (
	codeStringTooLong     = "22001"
	codeNumericOutOfRange = "22003"
)

// Repository accede a la tabla items.
// Contiene SQL y mapeo DB → modelo. Cada operación es un único statement.
type Repository struct {
	database DBTX
	policy   UpdatePolicy
}

// NewRepository crea un repositorio de items. Una política vacía equivale a overwrite.
func NewRepository(database DBTX, policy UpdatePolicy) *Repository {
	if policy == "" {
		policy = UpdateOverwrite
	}
	return &Repository{database: database, policy: policy}
}

// Policy devuelve la política de update configurada.
func (repository *Repository) Policy() UpdatePolicy {
	return repository.policy
}

// Insert crea un item y devuelve el registro persistido con el id generado.
func (repository *Repository) Insert(ctx context.Context, input CreateItemInput) (Item, error) {
	const query = `
		INSERT INTO items (name, description, price)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, price;
	`

	var item Item
	err := repository.database.QueryRow(ctx, query, input.Name, input.Description, input.Price).
		Scan(&item.ID, &item.Name, &item.Description, &item.Price)
	if err != nil {
		return Item{}, mapWriteError(err)
	}

	return item, nil
}

// List devuelve todos los items en orden de inserción. Nunca devuelve nil sin error.
func (repository *Repository) List(ctx context.Context) ([]Item, error) {
	const query = `
		SELECT id, name, description, price
		FROM items
		ORDER BY id;
	`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetByID busca un item por id. found=false (sin error) si no existe.
func (repository *Repository) GetByID(ctx context.Context, id int64) (Item, bool, error) {
	const query = `
		SELECT id, name, description, price
		FROM items
		WHERE id = $1;
	`

	var item Item
	err := repository.database.QueryRow(ctx, query, id).
		Scan(&item.ID, &item.Name, &item.Description, &item.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, false, nil
		}
		return Item{}, false, err
	}

	return item, true, nil
}

// Update escribe el payload según la política y vuelve a leer la fila.
// Son dos round trips sin transacción: un delete concurrente entre ambos
// se ve como found=false aunque el UPDATE haya corrido.
func (repository *Repository) Update(ctx context.Context, id int64, input UpdateItemInput) (Item, bool, error) {
	_, err := repository.database.Exec(ctx, repository.policy.statement(), input.Name, input.Description, input.Price, id)
	if err != nil {
		return Item{}, false, mapWriteError(err)
	}

	return repository.GetByID(ctx, id)
}

// Delete borra el item si existe. No chequea existencia: borrar un id inexistente no es error.
func (repository *Repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM items WHERE id = $1;`

	_, err := repository.database.Exec(ctx, query, id)
	return err
}

// mapWriteError traduce violaciones de largo/rango de Postgres a error de dominio.
func mapWriteError(err error) error {
	var postgresError *pgconn.PgError
	if errors.As(err, &postgresError) {
		switch postgresError.Code {
		case codeStringTooLong, codeNumericOutOfRange:
			return fmt.Errorf("%w: %s", ErrorInvalidInput, postgresError.Message)
		}
	}
	return err
}
