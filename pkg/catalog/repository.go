package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/pkg/money"
	log "github.com/sirupsen/logrus"
)

var ErrItemNotFound = apperrors.NotFound("catalog item")

type Repository interface {
	Store(ctx context.Context, item Item) (int, error)
	Get(ctx context.Context, id int) (Item, error)
	GetByCategory(ctx context.Context, category string) ([]Item, error)
	GetAll(ctx context.Context) ([]Item, error)
	GetUsedCategories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, item Item) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, item Item) (int, error) {
	price, err := money.Value(item.Price)
	if err != nil {
		return 0, apperrors.Invalid("price", err.Error())
	}
	query := `INSERT INTO catalog_items (category, name, price) VALUES (?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, item.Category, item.Name, price)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Item, error) {
	query := `SELECT id, category, name, price FROM catalog_items WHERE id = ?`
	var item Item
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.Id, &item.Category, &item.Name, money.Column(&item.Price))
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not get catalog item %d: %w", id, err)
		log.Error(err)
		return Item{}, err
	}
	return item, nil
}

func (r *RepositoryImpl) GetByCategory(ctx context.Context, category string) ([]Item, error) {
	query := `SELECT id, category, name, price FROM catalog_items WHERE category = ? ORDER BY name, id`
	return r.queryItems(ctx, query, category)
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]Item, error) {
	query := `SELECT id, category, name, price FROM catalog_items ORDER BY category, name, id`
	return r.queryItems(ctx, query)
}

func (r *RepositoryImpl) queryItems(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query catalog items: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Id, &item.Category, &item.Name, money.Column(&item.Price)); err != nil {
			err := fmt.Errorf("could not scan catalog item: %w", err)
			log.Error(err)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return items, nil
}

func (r *RepositoryImpl) GetUsedCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM catalog_items ORDER BY category`)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			err := fmt.Errorf("could not scan category: %w", err)
			log.Error(err)
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, item Item) (bool, error) {
	price, err := money.Value(item.Price)
	if err != nil {
		return false, apperrors.Invalid("price", err.Error())
	}
	query := `UPDATE catalog_items SET name = ?, price = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, item.Name, price, item.Id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM catalog_items WHERE id = ?", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}
