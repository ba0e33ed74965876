package exclusion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, e *Exclusion) error
	GetByID(ctx context.Context, id string) (*Exclusion, error)
	List(ctx context.Context, filter Filter) ([]*Exclusion, int, error)
	Update(ctx context.Context, e *Exclusion) error
	Delete(ctx context.Context, id string) error

	// ListTouching returns exclusions whose date span may intersect
	// [from, to]. The caller resolves exact intervals; this only narrows
	// by the stored calendar dates.
	ListTouching(ctx context.Context, from, to time.Time) ([]*Exclusion, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const columns = "id, start_date, end_date, start_minute, end_minute, note, created_at, updated_at"

func scanExclusion(row pgx.Row) (*Exclusion, error) {
	var e Exclusion
	err := row.Scan(
		&e.ID, &e.StartDate, &e.EndDate, &e.StartMinute, &e.EndMinute,
		&e.Note, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *pgxRepository) Create(ctx context.Context, e *Exclusion) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.exclusions").
		Columns("start_date", "end_date", "start_minute", "end_minute", "note").
		Values(e.StartDate, e.EndDate, e.StartMinute, e.EndMinute, e.Note).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create exclusion query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return fmt.Errorf("create exclusion failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Exclusion, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(columns).
		From("public.exclusions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get exclusion query failed: %w", err)
	}

	e, err := scanExclusion(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exclusion failed: %w", err)
	}
	return e, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Exclusion, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(columns + ", count(*) OVER() as total_count").
		From("public.exclusions")

	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"coalesce(end_date, start_date)": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"start_date": *filter.To})
	}

	query = query.OrderBy("start_date ASC")

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
		return nil, 0, fmt.Errorf("build list exclusions query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list exclusions failed: %w", err)
	}
	defer rows.Close()

	var result []*Exclusion
	var total int

	for rows.Next() {
		var e Exclusion
		if err := rows.Scan(
			&e.ID, &e.StartDate, &e.EndDate, &e.StartMinute, &e.EndMinute,
			&e.Note, &e.CreatedAt, &e.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan exclusion failed: %w", err)
		}
		result = append(result, &e)
	}

	return result, total, nil
}

func (r *pgxRepository) ListTouching(ctx context.Context, from, to time.Time) ([]*Exclusion, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	// An exclusion may reach one day past its last calendar date (end_minute
	// defaults to midnight of the following day), so widen the lower bound.
	sql, args, err := psql.Select(columns).
		From("public.exclusions").
		Where(squirrel.GtOrEq{"coalesce(end_date, start_date)": from.AddDate(0, 0, -1)}).
		Where(squirrel.LtOrEq{"start_date": to}).
		OrderBy("start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build touching exclusions query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("touching exclusions failed: %w", err)
	}
	defer rows.Close()

	var result []*Exclusion
	for rows.Next() {
		var e Exclusion
		if err := rows.Scan(
			&e.ID, &e.StartDate, &e.EndDate, &e.StartMinute, &e.EndMinute,
			&e.Note, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan exclusion failed: %w", err)
		}
		result = append(result, &e)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, e *Exclusion) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.exclusions").
		Set("start_date", e.StartDate).
		Set("end_date", e.EndDate).
		Set("start_minute", e.StartMinute).
		Set("end_minute", e.EndMinute).
		Set("note", e.Note).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update exclusion query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update exclusion failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.exclusions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete exclusion query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete exclusion failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
