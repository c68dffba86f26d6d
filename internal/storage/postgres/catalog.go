package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sweetsalty/backend/internal/domain/catalog"
)

const (
	listCategoriesSQL = `SELECT id, name_en, name_ar, description_en, description_ar
		FROM categories ORDER BY position`

	getCategorySQL = `SELECT id, name_en, name_ar, description_en, description_ar
		FROM categories WHERE id = $1`

	listItemsByCategorySQL = `SELECT id, name_en, name_ar, description_en, description_ar,
			price, discount, ingredients, image, most_ordered
		FROM menu_items WHERE category_id = $1 ORDER BY position`

	getItemSQL = `SELECT id, name_en, name_ar, description_en, description_ar,
			price, discount, ingredients, image, most_ordered
		FROM menu_items WHERE id = $1`

	getItemsSQL = `SELECT id, name_en, name_ar, description_en, description_ar,
			price, discount, ingredients, image, most_ordered
		FROM menu_items WHERE id = ANY($1)`

	listOffersSQL = `SELECT id, title_en, title_ar, description_en, description_ar, image
		FROM offers ORDER BY position`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListCategories returns all categories with their items, in menu order.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name.EN, &c.Name.AR, &c.Description.EN, &c.Description.AR); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	for i := range categories {
		items, err := r.listItems(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Items = items
	}
	return categories, nil
}

// GetCategory returns the category with the given id and its items.
func (r *CatalogRepository) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	var c catalog.Category
	err := r.pool.QueryRow(ctx, getCategorySQL, id).
		Scan(&c.ID, &c.Name.EN, &c.Name.AR, &c.Description.EN, &c.Description.AR)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting category %q: %w", id, err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

// GetItem returns the menu item with the given id.
func (r *CatalogRepository) GetItem(ctx context.Context, id string) (*catalog.MenuItem, error) {
	row := r.pool.QueryRow(ctx, getItemSQL, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %q: %w", id, err)
	}
	return item, nil
}

// GetItems returns the menu items matching the given ids in a single query.
func (r *CatalogRepository) GetItems(ctx context.Context, ids []string) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getItemsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting items: %w", err)
	}
	defer rows.Close()

	var items []catalog.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// ListOffers returns all promotional offers in display order.
func (r *CatalogRepository) ListOffers(ctx context.Context) ([]catalog.Offer, error) {
	rows, err := r.pool.Query(ctx, listOffersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer rows.Close()

	var offers []catalog.Offer
	for rows.Next() {
		var o catalog.Offer
		if err := rows.Scan(&o.ID, &o.Title.EN, &o.Title.AR, &o.Description.EN, &o.Description.AR, &o.Image); err != nil {
			return nil, fmt.Errorf("scanning offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating offers: %w", err)
	}
	return offers, nil
}

func (r *CatalogRepository) listItems(ctx context.Context, categoryID string) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listItemsByCategorySQL, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing items for category %q: %w", categoryID, err)
	}
	defer rows.Close()

	var items []catalog.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// scanItem reads one menu_items row. Ingredients are stored as a JSONB array
// of {en, ar} objects.
func scanItem(row pgx.Row) (*catalog.MenuItem, error) {
	var (
		item        catalog.MenuItem
		price       decimal.Decimal
		ingredients []byte
	)
	err := row.Scan(
		&item.ID,
		&item.Name.EN, &item.Name.AR,
		&item.Description.EN, &item.Description.AR,
		&price, &item.Discount, &ingredients, &item.Image, &item.MostOrdered,
	)
	if err != nil {
		return nil, err
	}
	item.Price = price

	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &item.Ingredients); err != nil {
			return nil, fmt.Errorf("decoding ingredients for item %q: %w", item.ID, err)
		}
	}
	return &item, nil
}
