// Package store is the SQLite persistence layer: users, articles, and the
// autopost configuration singleton.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autopress/internal/core"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// configRowID pins the autopost configuration to a single row.
const configRowID = 1

// Store represents the SQLite-backed persistence layer.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with a SQLite database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "autopress.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE,
		name TEXT,
		role TEXT,
		date_added DATETIME
	);`

	articlesTable := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT,
		content TEXT,
		category TEXT,
		tags TEXT,
		image_url TEXT,
		background_image_url TEXT,
		author_id TEXT,
		status TEXT,
		comments_enabled INTEGER,
		created_at DATETIME,
		updated_at DATETIME,
		FOREIGN KEY (author_id) REFERENCES users (id)
	);`

	configTable := `
	CREATE TABLE IF NOT EXISTS autopost_config (
		id INTEGER PRIMARY KEY,
		config TEXT,
		updated_at DATETIME
	);`

	tables := []string{usersTable, articlesTable, configTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// GetConfig returns the autopost configuration singleton. When no
// configuration has been saved it returns core.ErrConfigNotFound.
func (s *Store) GetConfig() (*core.AutopostConfig, error) {
	var raw string
	err := s.db.QueryRow("SELECT config FROM autopost_config WHERE id = ?", configRowID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load autopost config: %w", err)
	}

	var cfg core.AutopostConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal autopost config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig stores the autopost configuration singleton, replacing any
// previous version.
func (s *Store) SaveConfig(cfg *core.AutopostConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal autopost config: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO autopost_config (id, config, updated_at)
		VALUES (?, ?, ?)`,
		configRowID, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save autopost config: %w", err)
	}

	return nil
}

// CreateArticle persists a new article, assigning its ID and timestamps.
func (s *Store) CreateArticle(article *core.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	tags, err := json.Marshal(article.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO articles (id, title, content, category, tags, image_url,
			background_image_url, author_id, status, comments_enabled,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID, article.Title, article.Content, article.Category,
		string(tags), article.ImageURL, article.BackgroundImageURL,
		article.AuthorID, string(article.Status), article.CommentsEnabled,
		article.CreatedAt, article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}

	return nil
}

// GetArticle returns the article with the given ID, or sql.ErrNoRows wrapped
// when it does not exist.
func (s *Store) GetArticle(id string) (*core.Article, error) {
	row := s.db.QueryRow(`
		SELECT id, title, content, category, tags, image_url,
			background_image_url, author_id, status, comments_enabled,
			created_at, updated_at
		FROM articles WHERE id = ?`, id)

	article, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return article, nil
}

// ListArticles returns all articles, newest first.
func (s *Store) ListArticles() ([]core.Article, error) {
	rows, err := s.db.Query(`
		SELECT id, title, content, category, tags, image_url,
			background_image_url, author_id, status, comments_enabled,
			created_at, updated_at
		FROM articles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []core.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}

	return articles, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for scanArticle.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*core.Article, error) {
	var article core.Article
	var tags string
	var status string

	err := row.Scan(&article.ID, &article.Title, &article.Content,
		&article.Category, &tags, &article.ImageURL,
		&article.BackgroundImageURL, &article.AuthorID, &status,
		&article.CommentsEnabled, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return nil, err
	}

	article.Status = core.ArticleStatus(status)
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &article.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}

	return &article, nil
}

// ListUsers returns all users ordered by creation date.
func (s *Store) ListUsers() ([]core.User, error) {
	rows, err := s.db.Query(`
		SELECT id, email, name, role, date_added
		FROM users ORDER BY date_added ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Role = core.UserRole(role)
		users = append(users, u)
	}

	return users, rows.Err()
}

// SeedAdminUser inserts the given admin user unless a user with the same
// email already exists. Used on startup so generated articles always have an
// author.
func (s *Store) SeedAdminUser(email, name string) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count); err != nil {
		return fmt.Errorf("failed to check for existing user: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO users (id, email, name, role, date_added)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), email, name, string(core.RoleAdmin), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	return nil
}
