package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches the requested id or username.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("already exists")
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user row. Uniqueness of username and email is
// enforced by the database constraints; a violation surfaces as ErrDuplicate.
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (name, email, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Name, user.Email, user.Username, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, username, password_hash, created_at
		FROM users
		WHERE username = $1`
	err := r.db.QueryRow(query, username).
		Scan(&user.ID, &user.Name, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListArticles returns every article. There is no ORDER BY: the sequence is
// whatever the storage engine yields and callers must not rely on it.
func (r *Repository) ListArticles() ([]models.Article, error) {
	query := `
		SELECT id, title, title_uk, body, body_uk, author, created_at
		FROM articles`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.TitleUK, &a.Body, &a.BodyUK, &a.Author, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// GetArticle retrieves a single article by id
func (r *Repository) GetArticle(id int) (*models.Article, error) {
	a := &models.Article{}
	query := `
		SELECT id, title, title_uk, body, body_uk, author, created_at
		FROM articles
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&a.ID, &a.Title, &a.TitleUK, &a.Body, &a.BodyUK, &a.Author, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

// CreateArticle inserts a new article row. The author must come from the
// session, never from client input.
func (r *Repository) CreateArticle(article *models.Article) error {
	query := `
		INSERT INTO articles (title, title_uk, body, body_uk, author, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, article.Title, article.TitleUK, article.Body, article.BodyUK, article.Author).
		Scan(&article.ID, &article.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// UpdateArticle replaces the editable fields of the article matching id.
// Returns ErrNotFound when no such row exists.
func (r *Repository) UpdateArticle(id int, article *models.Article) error {
	query := `
		UPDATE articles
		SET title = $1, title_uk = $2, body = $3, body_uk = $4
		WHERE id = $5`
	res, err := r.db.Exec(query, article.Title, article.TitleUK, article.Body, article.BodyUK, id)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteArticle removes the article matching id. Returns ErrNotFound when
// no such row exists.
func (r *Repository) DeleteArticle(id int) error {
	res, err := r.db.Exec(`DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
