package availability

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// GetWeek returns all seven weekly records, Monday-first. Missing rows
	// come back as disabled days.
	GetWeek(ctx context.Context) (Week, error)

	// UpsertDay writes one weekday's record.
	UpsertDay(ctx context.Context, rec *WeeklyAvailability) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetWeek(ctx context.Context) (Week, error) {
	var week Week
	for i := range week {
		week[i].DayOfWeek = DayOfWeek(i)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("day_of_week", "start_minute", "end_minute", "enabled", "updated_at").
		From("public.weekly_availability").
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return week, fmt.Errorf("build get week query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return week, fmt.Errorf("get week failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec WeeklyAvailability
		if err := rows.Scan(&rec.DayOfWeek, &rec.StartMinute, &rec.EndMinute, &rec.Enabled, &rec.UpdatedAt); err != nil {
			return week, fmt.Errorf("scan weekly availability failed: %w", err)
		}
		if rec.DayOfWeek.Valid() {
			week[rec.DayOfWeek] = rec
		}
	}

	return week, nil
}

func (r *pgxRepository) UpsertDay(ctx context.Context, rec *WeeklyAvailability) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.weekly_availability").
		Columns("day_of_week", "start_minute", "end_minute", "enabled").
		Values(rec.DayOfWeek, rec.StartMinute, rec.EndMinute, rec.Enabled).
		Suffix("ON CONFLICT (day_of_week) DO UPDATE SET " +
			"start_minute = EXCLUDED.start_minute, " +
			"end_minute = EXCLUDED.end_minute, " +
			"enabled = EXCLUDED.enabled, " +
			"updated_at = now() " +
			"RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert weekly availability query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rec.UpdatedAt); err != nil {
		return fmt.Errorf("upsert weekly availability failed: %w", err)
	}
	return nil
}
