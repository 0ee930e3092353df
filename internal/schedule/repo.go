package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

type Repo struct{ DB *pgxpool.Pool }

var _ Source = (*Repo)(nil)

func (r *Repo) Schedule(ctx context.Context, restaurantID int64) (Schedule, error) {
	var s Schedule
	err := r.DB.QueryRow(ctx, `SELECT COALESCE(timezone, '') FROM restaurants WHERE id=$1`,
		restaurantID).Scan(&s.Timezone)
	if errors.Is(err, pgx.ErrNoRows) {
		return Schedule{}, ErrRestaurantNotFound
	}
	if err != nil {
		return Schedule{}, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT weekday, open_secs, close_secs
		FROM operating_windows WHERE restaurant_id=$1`, restaurantID)
	if err != nil {
		return Schedule{}, err
	}
	defer rows.Close()

	s.Windows = make(map[time.Weekday]Window)
	for rows.Next() {
		var w Window
		var day int
		if err := rows.Scan(&day, &w.OpenSecs, &w.CloseSecs); err != nil {
			return Schedule{}, err
		}
		w.Weekday = time.Weekday(day)
		s.Windows[w.Weekday] = w
	}
	return s, rows.Err()
}

// Replace swaps the restaurant's whole week in one transaction: delete every
// stored window, insert one row per supplied day. Days not supplied are
// simply absent, meaning closed. Applying the same set twice is a no-op.
func (r *Repo) Replace(ctx context.Context, restaurantID int64, windows []Window) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `DELETE FROM operating_windows WHERE restaurant_id=$1`, restaurantID); err != nil {
		return err
	}
	for _, w := range windows {
		if _, err = tx.Exec(ctx, `
			INSERT INTO operating_windows(restaurant_id, weekday, open_secs, close_secs)
			VALUES ($1, $2, $3, $4)`,
			restaurantID, int(w.Weekday), w.OpenSecs, w.CloseSecs,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) SetTimezone(ctx context.Context, restaurantID int64, tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return err
	}
	ct, err := r.DB.Exec(ctx, `UPDATE restaurants SET timezone=$2 WHERE id=$1`, restaurantID, tz)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrRestaurantNotFound
	}
	return nil
}
