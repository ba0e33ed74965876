package bookingtype

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, bt *BookingType) error
	GetByID(ctx context.Context, id string) (*BookingType, error)
	List(ctx context.Context, filter Filter) ([]*BookingType, int, error)
	Update(ctx context.Context, bt *BookingType) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, bt *BookingType) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.booking_types").
		Columns("name", "duration_minutes", "description", "color").
		Values(bt.Name, bt.DurationMinutes, bt.Description, bt.Color).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking type query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&bt.ID, &bt.CreatedAt, &bt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking type failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*BookingType, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "duration_minutes", "description", "color", "created_at", "updated_at",
	).
		From("public.booking_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking type query failed: %w", err)
	}

	var bt BookingType
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&bt.ID, &bt.Name, &bt.DurationMinutes, &bt.Description, &bt.Color,
		&bt.CreatedAt, &bt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking type failed: %w", err)
	}
	return &bt, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*BookingType, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "duration_minutes", "description", "color", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.booking_types").
		OrderBy("name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list booking types query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list booking types failed: %w", err)
	}
	defer rows.Close()

	var result []*BookingType
	var total int

	for rows.Next() {
		var bt BookingType
		if err := rows.Scan(
			&bt.ID, &bt.Name, &bt.DurationMinutes, &bt.Description, &bt.Color,
			&bt.CreatedAt, &bt.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking type failed: %w", err)
		}
		result = append(result, &bt)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, bt *BookingType) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.booking_types").
		Set("name", bt.Name).
		Set("duration_minutes", bt.DurationMinutes).
		Set("description", bt.Description).
		Set("color", bt.Color).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": bt.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking type query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking type failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.booking_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking type query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking type failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
