package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// CreateOrderTx inserts the order row and every cart item in one transaction,
// so a crash mid-checkout never leaves a half-built order behind. The total
// starts at the delivery fee and is incremented per item from the price
// snapshot taken inside the same transaction.
func (r *Repo) CreateOrderTx(ctx context.Context, customerID, restaurantID, paymentID, addressID int64, feeCents int, items []CartItem) (orderID int64, total int, err error) {
	if len(items) == 0 {
		return 0, 0, ErrEmptyCart
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(customer_id, restaurant_id, payment_id, address_id, status, fee_cents, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`, customerID, restaurantID, paymentID, addressID, StatusPending, feeCents).Scan(&orderID)
	if err != nil {
		return 0, 0, err
	}
	total = feeCents

	for _, it := range items {
		if it.Qty <= 0 {
			return 0, 0, fmt.Errorf("%w: qty for dish %d", ErrValidation, it.DishID)
		}
		var dishRestaurant int64
		var price int
		var available bool
		err = tx.QueryRow(ctx, `SELECT restaurant_id, price_cents, available FROM dishes WHERE id=$1`,
			it.DishID).Scan(&dishRestaurant, &price, &available)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("%w: dish %d not found", ErrValidation, it.DishID)
		}
		if err != nil {
			return 0, 0, err
		}
		if dishRestaurant != restaurantID {
			return 0, 0, fmt.Errorf("%w: dish %d", ErrWrongRestaurant, it.DishID)
		}
		if !available {
			return 0, 0, fmt.Errorf("%w: dish %d unavailable", ErrValidation, it.DishID)
		}

		if _, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, dish_id, qty, price_cents, notes)
			VALUES ($1, $2, $3, $4, $5)`,
			orderID, it.DishID, it.Qty, price, it.Notes,
		); err != nil {
			return 0, 0, err
		}
		if _, err = tx.Exec(ctx, `UPDATE orders SET total_cents = total_cents + $2 WHERE id=$1`,
			orderID, price*it.Qty,
		); err != nil {
			return 0, 0, err
		}
		total += price * it.Qty
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return orderID, total, nil
}

// AddItem appends one line item to an existing order, snapshotting the dish
// price and bumping the order total in the store (increment, not
// read-modify-write, so concurrent appends cannot lose updates).
func (r *Repo) AddItem(ctx context.Context, orderID, dishID int64, qty int, notes string) error {
	if qty <= 0 {
		return fmt.Errorf("%w: qty", ErrValidation)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var restaurantID int64
	var status Status
	err = tx.QueryRow(ctx, `SELECT restaurant_id, status FROM orders WHERE id=$1`, orderID).
		Scan(&restaurantID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != StatusPending {
		return fmt.Errorf("%w: items can only be added while pending", ErrValidation)
	}

	var dishRestaurant int64
	var price int
	err = tx.QueryRow(ctx, `SELECT restaurant_id, price_cents FROM dishes WHERE id=$1`, dishID).
		Scan(&dishRestaurant, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: dish %d not found", ErrValidation, dishID)
	}
	if err != nil {
		return err
	}
	if dishRestaurant != restaurantID {
		return fmt.Errorf("%w: dish %d", ErrWrongRestaurant, dishID)
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO order_items(order_id, dish_id, qty, price_cents, notes)
		VALUES ($1, $2, $3, $4, $5)`,
		orderID, dishID, qty, price, notes,
	); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `UPDATE orders SET total_cents = total_cents + $2 WHERE id=$1`,
		orderID, price*qty,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) GetOrder(ctx context.Context, orderID int64) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, customer_id, restaurant_id, address_id, payment_id, status,
		       total_cents, fee_cents, reviewed, created_at
		FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.AddressID, &o.PaymentID,
			&o.Status, &o.TotalCents, &o.FeeCents, &o.Reviewed, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *Repo) GetItems(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, dish_id, qty, price_cents, notes
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.DishID, &it.Qty, &it.PriceCents, &it.Notes); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// SetStatus is a compare-and-set: the row moves from -> to only if it is
// still in from. Reports whether this call won the write.
func (r *Repo) SetStatus(ctx context.Context, orderID int64, from, to Status) (bool, error) {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$3 WHERE id=$1 AND status=$2`,
		orderID, from, to)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// CreateReview flips the reviewed flag and records the review in one
// transaction. The guarded UPDATE decides everything: zero rows means the
// order is missing, not delivered, or already reviewed.
func (r *Repo) CreateReview(ctx context.Context, orderID, customerID int64, rating int, feedback string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE orders SET reviewed=true
		WHERE id=$1 AND customer_id=$2 AND status=$3 AND reviewed=false`,
		orderID, customerID, StatusDelivered)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		o, err := r.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		switch {
		case o.CustomerID != customerID:
			return ErrForbidden
		case o.Reviewed:
			return ErrAlreadyReviewed
		default:
			return ErrNotDelivered
		}
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO reviews(order_id, restaurant_id, customer_id, rating, feedback)
		SELECT id, restaurant_id, customer_id, $2, $3 FROM orders WHERE id=$1`,
		orderID, rating, feedback,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) ListForRestaurant(ctx context.Context, restaurantID int64) ([]Order, error) {
	return r.list(ctx, `restaurant_id`, restaurantID)
}

func (r *Repo) ListForCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return r.list(ctx, `customer_id`, customerID)
}

func (r *Repo) list(ctx context.Context, col string, id int64) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, customer_id, restaurant_id, address_id, payment_id, status,
		       total_cents, fee_cents, reviewed, created_at
		FROM orders WHERE `+col+`=$1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.AddressID, &o.PaymentID,
			&o.Status, &o.TotalCents, &o.FeeCents, &o.Reviewed, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) ListReviews(ctx context.Context, restaurantID int64) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, restaurant_id, customer_id, rating, feedback, created_at
		FROM reviews WHERE restaurant_id=$1 ORDER BY created_at DESC`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var v Review
		if err := rows.Scan(&v.ID, &v.OrderID, &v.RestaurantID, &v.CustomerID, &v.Rating, &v.Feedback, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
