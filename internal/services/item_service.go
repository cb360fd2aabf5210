package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/models"
)

// ErrItemNotFound is returned when no review exists for the requested id.
var ErrItemNotFound = errors.New("item not found")

// ItemOrder selects the ordering of a catalog listing.
type ItemOrder int

const (
	// OrderByID lists reviews oldest first.
	OrderByID ItemOrder = iota
	// OrderByTitle lists reviews alphabetically by title.
	OrderByTitle
	// OrderByRating lists reviews highest rated first.
	OrderByRating
)

// SortLabelTitle is the form value that selects alphabetical ordering. Any
// other label sorts by rating, highest first.
const SortLabelTitle = "Name (A-Z)"

// OrderFromSortLabel maps a sort form value to an ordering.
func OrderFromSortLabel(label string) ItemOrder {
	if label == SortLabelTitle {
		return OrderByTitle
	}
	return OrderByRating
}

// ItemServiceProvider defines the interface for item services.
type ItemServiceProvider interface {
	List(ctx context.Context, order ItemOrder) ([]models.Item, error)
	Get(ctx context.Context, id int) (models.Item, error)
	Create(ctx context.Context, item models.Item) (int, error)
	Update(ctx context.Context, item models.Item) error
	Search(ctx context.Context, keyword string) ([]models.Item, error)
	FilterByGenre(ctx context.Context, genre string) ([]models.Item, error)
	Count(ctx context.Context) (int, error)
}

// ItemService provides business logic for the review catalog.
type ItemService struct {
	db *sql.DB
}

// NewItemService creates a new ItemService.
func NewItemService(db *sql.DB) *ItemService {
	return &ItemService{db: db}
}

const itemColumns = "id, isbn, author, genre, title, review, rating"

// List retrieves every review in the requested order.
func (s *ItemService) List(ctx context.Context, order ItemOrder) ([]models.Item, error) {
	// The ORDER BY clause comes from a fixed enum, never from user input.
	orderBy := "id ASC"
	switch order {
	case OrderByTitle:
		orderBy = "title ASC"
	case OrderByRating:
		orderBy = "rating DESC"
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+itemColumns+" FROM items ORDER BY "+orderBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Get retrieves a single review by its id.
func (s *ItemService) Get(ctx context.Context, id int) (models.Item, error) {
	var item models.Item
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	err := row.Scan(&item.ID, &item.ISBN, &item.Author, &item.Genre, &item.Title, &item.Review, &item.Rating)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Item{}, ErrItemNotFound
		}
		return models.Item{}, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return item, nil
}

// Create inserts a new review and returns its generated id.
func (s *ItemService) Create(ctx context.Context, item models.Item) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO items (isbn, author, genre, title, review, rating) VALUES (?, ?, ?, ?, ?, ?)",
		item.ISBN, item.Author, item.Genre, item.Title, item.Review, item.Rating)
	if err != nil {
		return 0, fmt.Errorf("failed to create item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new item id: %w", err)
	}
	return int(id), nil
}

// Update overwrites every field of an existing review. Concurrent edits are
// last-writer-wins.
func (s *ItemService) Update(ctx context.Context, item models.Item) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET isbn = ?, author = ?, genre = ?, title = ?, review = ?, rating = ? WHERE id = ?",
		item.ISBN, item.Author, item.Genre, item.Title, item.Review, item.Rating, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item %d: %w", item.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update item %d: %w", item.ID, err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Search returns every review whose author, title or genre contains the
// keyword, case-insensitively. The keyword is trimmed and lowercased first.
func (s *ItemService) Search(ctx context.Context, keyword string) ([]models.Item, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE LOWER(author) LIKE '%' || ? || '%'
		    OR LOWER(title) LIKE '%' || ? || '%'
		    OR LOWER(genre) LIKE '%' || ? || '%'`,
		keyword, keyword, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// FilterByGenre returns every review whose genre contains the given term,
// case-insensitively. An empty term matches everything.
func (s *ItemService) FilterByGenre(ctx context.Context, genre string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE LOWER(genre) LIKE '%' || ? || '%'",
		strings.ToLower(genre))
	if err != nil {
		return nil, fmt.Errorf("failed to filter items by genre: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Count returns the total number of reviews in the catalog.
func (s *ItemService) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func scanItems(rows *sql.Rows) ([]models.Item, error) {
	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.ISBN, &item.Author, &item.Genre, &item.Title, &item.Review, &item.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}
