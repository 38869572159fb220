package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"voicepick-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE sku = $1", sku)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", sku)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// GetWorkerByID retrieves a worker by ID
func (s *Store) GetWorkerByID(ctx context.Context, id int64) (*models.Worker, error) {
	var worker models.Worker
	err := s.db.GetContext(ctx, &worker, "SELECT * FROM workers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("worker not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// GetWorkersByWarehouse retrieves all workers in a warehouse
func (s *Store) GetWorkersByWarehouse(ctx context.Context, warehouseID int64) ([]models.Worker, error) {
	var workers []models.Worker
	err := s.db.SelectContext(ctx, &workers,
		"SELECT * FROM workers WHERE warehouse_id = $1 ORDER BY id", warehouseID)
	return workers, err
}
