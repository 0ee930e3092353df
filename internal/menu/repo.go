package menu

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("dish not found")
	ErrBadParent = errors.New("category belongs to a different restaurant")
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) AddCategory(ctx context.Context, restaurantID int64, name string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO dish_categories(restaurant_id, name) VALUES ($1, $2) RETURNING id`,
		restaurantID, name).Scan(&id)
	return id, err
}

func (r *Repo) Categories(ctx context.Context, restaurantID int64) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, restaurant_id, name FROM dish_categories
		WHERE restaurant_id=$1 ORDER BY name`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddDish stores the dish under its category's restaurant; the restaurant id
// is denormalized onto the dish row so order checkout can verify ownership
// with a single lookup.
func (r *Repo) AddDish(ctx context.Context, restaurantID, categoryID int64, name, description string, priceCents int) (int64, error) {
	var catRestaurant int64
	err := r.DB.QueryRow(ctx, `SELECT restaurant_id FROM dish_categories WHERE id=$1`,
		categoryID).Scan(&catRestaurant)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrBadParent
	}
	if err != nil {
		return 0, err
	}
	if catRestaurant != restaurantID {
		return 0, ErrBadParent
	}

	var id int64
	err = r.DB.QueryRow(ctx, `
		INSERT INTO dishes(category_id, restaurant_id, name, description, price_cents, available)
		VALUES ($1, $2, $3, $4, $5, true) RETURNING id`,
		categoryID, restaurantID, name, description, priceCents).Scan(&id)
	return id, err
}

func (r *Repo) UpdateDish(ctx context.Context, dishID int64, name, description string, priceCents int) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE dishes SET name=$2, description=$3, price_cents=$4 WHERE id=$1`,
		dishID, name, description, priceCents)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

// SetAvailability flips the flag and reports whether the row actually
// changed, so callers can skip notifying on no-ops.
func (r *Repo) SetAvailability(ctx context.Context, dishID int64, available bool) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE dishes SET available=$2 WHERE id=$1 AND available <> $2`,
		dishID, available)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *Repo) GetDish(ctx context.Context, dishID int64) (Dish, error) {
	var d Dish
	err := r.DB.QueryRow(ctx, `
		SELECT id, category_id, restaurant_id, name, description, price_cents, available
		FROM dishes WHERE id=$1`, dishID).
		Scan(&d.ID, &d.CategoryID, &d.RestaurantID, &d.Name, &d.Description, &d.PriceCents, &d.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dish{}, ErrNotFound
	}
	return d, err
}

// Menu is the customer-facing projection: categories in name order, each with
// its dishes.
func (r *Repo) Menu(ctx context.Context, restaurantID int64) ([]Section, error) {
	cats, err := r.Categories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, category_id, restaurant_id, name, description, price_cents, available
		FROM dishes WHERE restaurant_id=$1 ORDER BY name`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCat := make(map[int64][]Dish)
	for rows.Next() {
		var d Dish
		if err := rows.Scan(&d.ID, &d.CategoryID, &d.RestaurantID, &d.Name, &d.Description, &d.PriceCents, &d.Available); err != nil {
			return nil, err
		}
		byCat[d.CategoryID] = append(byCat[d.CategoryID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Section, 0, len(cats))
	for _, c := range cats {
		out = append(out, Section{Category: c, Dishes: byCat[c.ID]})
	}
	return out, nil
}
