package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/myronlou/calendar-booking-backend/internal/exclusion"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

type Repository interface {
	// Reserve atomically re-checks the booking's interval against current
	// bookings and exclusions and inserts it. It is the only insert path
	// for bookings. Returns ErrSlotTaken or ErrExcluded on conflict.
	Reserve(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// HasOverlap checks for any booking conflicting with the time range.
	// excludeBookingID is used during updates to ignore the booking itself.
	HasOverlap(ctx context.Context, start, end time.Time, excludeBookingID string) (bool, error)

	// IntervalsWithin returns the spans of all bookings intersecting
	// [from, to), for the availability resolver and overlay.
	IntervalsWithin(ctx context.Context, from, to time.Time) ([]timewindow.Interval, error)

	// DueReminders lists confirmed bookings starting in [from, to) that have
	// not been reminded yet.
	DueReminders(ctx context.Context, from, to time.Time) ([]*Booking, error)

	// MarkReminded records that the reminder for a booking went out.
	MarkReminded(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const columns = "id, title, start_time, end_time, full_name, email, phone, status, user_id, reminded_at, created_at, updated_at"

// Reserve runs the full conflict check and the insert as one serializable
// transaction. Two concurrent reservations of overlapping intervals cannot
// both commit: the loser either sees the winner's row in the re-read or
// fails with a serialization error, both of which surface as ErrSlotTaken.
func (r *pgxRepository) Reserve(ctx context.Context, b *Booking) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin reserve tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// Re-read overlapping bookings at commit time. Status is intentionally
	// not filtered: any persisted booking occupies its interval.
	overlapSQL, overlapArgs, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Lt{"start_time": b.EndTime}).
		Where(squirrel.Gt{"end_time": b.StartTime}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reserve overlap query failed: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx, "SELECT EXISTS ("+overlapSQL+")", overlapArgs...).Scan(&exists)
	if err != nil {
		return fmt.Errorf("reserve overlap check failed: %w", err)
	}
	if exists {
		return ErrSlotTaken
	}

	if err := r.checkExclusions(ctx, tx, b.StartTime, b.EndTime); err != nil {
		return err
	}

	insertSQL, insertArgs, err := psql.Insert("public.bookings").
		Columns("title", "start_time", "end_time", "full_name", "email", "phone", "status", "user_id").
		Values(b.Title, b.StartTime, b.EndTime, b.FullName, b.Email, b.Phone, b.Status, b.UserID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build reserve insert query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapConflict(err)
	}
	return nil
}

// checkExclusions re-resolves exclusions whose calendar span may touch the
// interval and rejects the reservation when any covers it. Rows that fail to
// resolve are ignored here the same way the resolver skips them.
func (r *pgxRepository) checkExclusions(ctx context.Context, tx pgx.Tx, start, end time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("id", "start_date", "end_date", "start_minute", "end_minute").
		From("public.exclusions").
		Where(squirrel.GtOrEq{"coalesce(end_date, start_date)": start.AddDate(0, 0, -1)}).
		Where(squirrel.LtOrEq{"start_date": end}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reserve exclusion query failed: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("reserve exclusion check failed: %w", err)
	}
	defer rows.Close()

	candidate := timewindow.Interval{Start: start, End: end}
	for rows.Next() {
		var e exclusion.Exclusion
		if err := rows.Scan(&e.ID, &e.StartDate, &e.EndDate, &e.StartMinute, &e.EndMinute); err != nil {
			return fmt.Errorf("scan reserve exclusion failed: %w", err)
		}
		iv, err := e.Interval()
		if err != nil {
			continue
		}
		if candidate.Overlaps(iv) {
			return ErrExcluded
		}
	}
	return rows.Err()
}

// mapConflict translates store-level concurrency failures into ErrSlotTaken.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.ExclusionViolation:
			return ErrSlotTaken
		}
	}
	return fmt.Errorf("reserve booking failed: %w", err)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(columns).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.Title, &b.StartTime, &b.EndTime, &b.FullName, &b.Email,
		&b.Phone, &b.Status, &b.UserID, &b.RemindedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(columns + ", count(*) OVER() as total_count").
		From("public.bookings")

	if filter.Email != "" {
		query = query.Where(squirrel.Eq{"email": filter.Email})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.StartTime != nil {
		query = query.Where(squirrel.GtOrEq{"end_time": filter.StartTime})
	}
	if filter.EndTime != nil {
		query = query.Where(squirrel.LtOrEq{"start_time": filter.EndTime})
	}

	orderBy := "start_time"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.Title, &b.StartTime, &b.EndTime, &b.FullName, &b.Email,
			&b.Phone, &b.Status, &b.UserID, &b.RemindedAt, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("title", b.Title).
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, start, end time.Time, excludeBookingID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeBookingID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeBookingID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	err = r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) IntervalsWithin(ctx context.Context, from, to time.Time) ([]timewindow.Interval, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("start_time", "end_time").
		From("public.bookings").
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build intervals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("booking intervals failed: %w", err)
	}
	defer rows.Close()

	var intervals []timewindow.Interval
	for rows.Next() {
		var iv timewindow.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("scan booking interval failed: %w", err)
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

func (r *pgxRepository) DueReminders(ctx context.Context, from, to time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(columns).
		From("public.bookings").
		Where(squirrel.Eq{"status": StatusConfirmed}).
		Where(squirrel.Eq{"reminded_at": nil}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due reminders query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("due reminders failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.Title, &b.StartTime, &b.EndTime, &b.FullName, &b.Email,
			&b.Phone, &b.Status, &b.UserID, &b.RemindedAt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan due reminder failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) MarkReminded(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("reminded_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark reminded query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark reminded failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
