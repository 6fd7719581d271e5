package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/YusovID/storefront/internal/catalog"
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/storage"
)

var productColumns = []string{
	"id",
	"name",
	"price",
	"original_price",
	"image",
	"rating",
	"reviews",
	"category",
	"COALESCE(brand, '') AS brand",
	"COALESCE(badge, '') AS badge",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Storage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const fn = "storage.postgres.GetProduct"

	query, args, err := psql.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build query: %w", fn, err)
	}

	var product models.Product
	if err := s.db.GetContext(ctx, &product, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoProduct
		}

		return nil, fmt.Errorf("%s: can't get product %d: %w", fn, id, err)
	}

	return &product, nil
}

// ListProducts returns one page of the catalog matching f.
func (s *Storage) ListProducts(ctx context.Context, f catalog.Filter) ([]models.Product, error) {
	const fn = "storage.postgres.ListProducts"

	query, args, err := productsQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build query: %w", fn, err)
	}

	products := make([]models.Product, 0, f.PageSize())
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("%s: can't list products: %w", fn, err)
	}

	return products, nil
}

func productsQuery(f catalog.Filter) sq.SelectBuilder {
	q := psql.Select(productColumns...).From("products")

	if f.Search != "" {
		q = q.Where(sq.ILike{"name": "%" + likeEscaper.Replace(f.Search) + "%"})
	}
	if f.HasCategory() {
		q = q.Where(sq.Eq{"category": f.Category})
	}
	if f.HasBrand() {
		q = q.Where(sq.Eq{"brand": f.Brand})
	}
	if f.MinPrice > 0 {
		q = q.Where(sq.GtOrEq{"price": f.MinPrice})
	}
	if f.MaxPrice > 0 {
		q = q.Where(sq.LtOrEq{"price": f.MaxPrice})
	}
	if f.MinRating > 0 {
		q = q.Where(sq.GtOrEq{"rating": f.MinRating})
	}

	q = q.OrderBy(orderBy(f.Sort)...).Limit(uint64(f.PageSize()))
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	return q
}

func orderBy(sort catalog.Sort) []string {
	switch sort {
	case catalog.SortPriceLow:
		return []string{"price ASC", "id ASC"}
	case catalog.SortPriceHigh:
		return []string{"price DESC", "id ASC"}
	case catalog.SortRating:
		return []string{"rating DESC", "id ASC"}
	case catalog.SortReviews:
		return []string{"reviews DESC", "id ASC"}
	default:
		return []string{"id ASC"}
	}
}
