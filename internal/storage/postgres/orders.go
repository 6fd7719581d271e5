package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/storage"
	"github.com/YusovID/storefront/lib/logger/sl"
)

var orderColumns = []string{
	"order_id",
	"transaction_id",
	"is_cart_order",
	"product",
	"quantity",
	"customer",
	"order_date",
	"subtotal",
	"tax",
	"shipping",
	"grand_total",
}

type orderRow struct {
	OrderID       string        `db:"order_id"`
	TransactionID string        `db:"transaction_id"`
	IsCartOrder   bool          `db:"is_cart_order"`
	Product       []byte        `db:"product"`
	Quantity      sql.NullInt64 `db:"quantity"`
	Customer      []byte        `db:"customer"`
	OrderDate     time.Time     `db:"order_date"`
	Subtotal      float64       `db:"subtotal"`
	Tax           float64       `db:"tax"`
	Shipping      float64       `db:"shipping"`
	GrandTotal    float64       `db:"grand_total"`
}

type itemRow struct {
	OrderID string `db:"order_id"`
	models.CartItem
}

// SaveOrder stores a receipt. Saving an order that already exists is a
// no-op, so redelivered order events are harmless.
func (s *Storage) SaveOrder(ctx context.Context, order *models.OrderData) (err error) {
	const fn = "storage.postgres.SaveOrder"

	if order.IsCartOrder && len(order.Items) == 0 {
		return storage.ErrEmptyOrder
	}

	customer, err := json.Marshal(order.CustomerInfo)
	if err != nil {
		return fmt.Errorf("%s: can't marshal customer: %w", fn, err)
	}

	// jsonb values go over the wire as text, lib/pq would send []byte as bytea
	var product, quantity any
	if !order.IsCartOrder {
		productJSON, err := json.Marshal(order.Product)
		if err != nil {
			return fmt.Errorf("%s: can't marshal product: %w", fn, err)
		}
		product = string(productJSON)
		quantity = order.Quantity
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: can't begin transaction: %w", fn, err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Error("can't rollback transaction", slog.String("fn", fn), sl.Err(rbErr))
			}
		}
	}()

	query, args, err := psql.Insert("orders").
		Columns(orderColumns...).
		Values(
			order.OrderID,
			order.TransactionID,
			order.IsCartOrder,
			product,
			quantity,
			string(customer),
			order.OrderDate,
			order.Subtotal,
			order.Tax,
			order.Shipping,
			order.GrandTotal,
		).
		Suffix("ON CONFLICT (order_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build order insert: %w", fn, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: can't insert order: %w", fn, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: can't get affected rows: %w", fn, err)
	}

	if inserted > 0 && order.IsCartOrder {
		items := psql.Insert("order_items").
			Columns("order_id", "position", "product_id", "name", "price", "image", "quantity")

		for i, item := range order.Items {
			items = items.Values(order.OrderID, i, item.ID, item.Name, item.Price, item.Image, item.Quantity)
		}

		query, args, err = items.ToSql()
		if err != nil {
			return fmt.Errorf("%s: can't build items insert: %w", fn, err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: can't insert order items: %w", fn, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: can't commit transaction: %w", fn, err)
	}

	return nil
}

func (s *Storage) GetOrder(ctx context.Context, orderID string) (*models.OrderData, error) {
	const fn = "storage.postgres.GetOrder"

	query, args, err := psql.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build query: %w", fn, err)
	}

	var row orderRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoOrder
		}

		return nil, fmt.Errorf("%s: can't get order: %w", fn, err)
	}

	orders, err := s.withItems(ctx, []orderRow{row})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	order := orders[0]
	if order.IsCartOrder && len(order.Items) == 0 {
		return nil, storage.ErrEmptyOrder
	}

	return order, nil
}

// GetOrders returns the most recent orders, newest first.
func (s *Storage) GetOrders(ctx context.Context, limit int) ([]*models.OrderData, error) {
	const fn = "storage.postgres.GetOrders"

	query, args, err := psql.Select(orderColumns...).
		From("orders").
		OrderBy("order_date DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build query: %w", fn, err)
	}

	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: can't get orders: %w", fn, err)
	}

	orders, err := s.withItems(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	return orders, nil
}

// withItems decodes rows and loads the lines of the cart orders among them
// with a single query.
func (s *Storage) withItems(ctx context.Context, rows []orderRow) ([]*models.OrderData, error) {
	orders := make([]*models.OrderData, 0, len(rows))
	byID := make(map[string]*models.OrderData)
	cartIDs := make([]string, 0, len(rows))

	for _, row := range rows {
		order, err := row.decode()
		if err != nil {
			return nil, err
		}

		orders = append(orders, order)
		if order.IsCartOrder {
			byID[order.OrderID] = order
			cartIDs = append(cartIDs, order.OrderID)
		}
	}

	if len(cartIDs) == 0 {
		return orders, nil
	}

	query, args, err := psql.Select("order_id", "product_id", "name", "price", "image", "quantity").
		From("order_items").
		Where(sq.Eq{"order_id": cartIDs}).
		OrderBy("order_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build items query: %w", err)
	}

	var items []itemRow
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("can't get order items: %w", err)
	}

	for _, item := range items {
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item.CartItem)
		}
	}

	return orders, nil
}

func (r orderRow) decode() (*models.OrderData, error) {
	order := &models.OrderData{
		OrderID:       r.OrderID,
		TransactionID: r.TransactionID,
		IsCartOrder:   r.IsCartOrder,
		OrderDate:     r.OrderDate.UTC(),
		OrderTotals: models.OrderTotals{
			Subtotal:   r.Subtotal,
			Tax:        r.Tax,
			Shipping:   r.Shipping,
			GrandTotal: r.GrandTotal,
		},
	}

	if err := json.Unmarshal(r.Customer, &order.CustomerInfo); err != nil {
		return nil, fmt.Errorf("can't unmarshal customer of %s: %w", r.OrderID, err)
	}

	if !r.IsCartOrder {
		if len(r.Product) > 0 {
			order.Product = &models.Product{}
			if err := json.Unmarshal(r.Product, order.Product); err != nil {
				return nil, fmt.Errorf("can't unmarshal product of %s: %w", r.OrderID, err)
			}
		}
		order.Quantity = int(r.Quantity.Int64)
	}

	return order, nil
}
