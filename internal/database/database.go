// Package database provides SQLite storage for the blog.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bryan-buckman/quill/internal/model"
	"github.com/bryan-buckman/quill/internal/slug"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Ensure DB implements Store interface.
var _ Store = (*DB)(nil)

// New opens or creates an SQLite database at the given path.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// DatabaseType returns the database backend name.
func (db *DB) DatabaseType() string {
	return "SQLite"
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		published TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS secrets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		secret TEXT NOT NULL,
		description TEXT
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// --- Article Methods ---

// InsertArticle creates a new article with a generated id and the current
// timestamp, and returns the full row.
func (db *DB) InsertArticle(ctx context.Context, title, content string) (model.Article, error) {
	article := model.Article{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Published: time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO articles (id, title, content, published) VALUES (?, ?, ?, ?)",
		article.ID, article.Title, article.Content, article.Published)
	if err != nil {
		return model.Article{}, fmt.Errorf("insert article: %w", err)
	}
	return article, nil
}

// ArticleByID returns the article with the given id, or ErrNotFound.
func (db *DB) ArticleByID(ctx context.Context, id string) (model.Article, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, title, content, published FROM articles WHERE id = ?", id)
	return scanArticle(row)
}

// ArticleBySlug resolves a slug by scanning all titles and recomputing their
// slugs; the first match in store order wins. Ties between colliding titles
// are deliberately left undefined.
func (db *DB) ArticleBySlug(ctx context.Context, s string) (model.Article, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT id, title FROM articles")
	if err != nil {
		return model.Article{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return model.Article{}, err
		}
		if slug.ToSlug(title) == s {
			if err := rows.Close(); err != nil {
				return model.Article{}, err
			}
			return db.ArticleByID(ctx, id)
		}
	}
	if err := rows.Err(); err != nil {
		return model.Article{}, err
	}
	return model.Article{}, ErrNotFound
}

// DeleteArticle removes an article. Deleting a missing id succeeds silently.
func (db *DB) DeleteArticle(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	return err
}

// UpdateArticle rewrites the supplied fields in a single statement.
// Supplying neither field is a no-op; published is never touched.
func (db *DB) UpdateArticle(ctx context.Context, id string, title, content *string) error {
	var err error
	switch {
	case title != nil && content != nil:
		_, err = db.conn.ExecContext(ctx,
			"UPDATE articles SET title = ?, content = ? WHERE id = ?", *title, *content, id)
	case title != nil:
		_, err = db.conn.ExecContext(ctx,
			"UPDATE articles SET title = ? WHERE id = ?", *title, id)
	case content != nil:
		_, err = db.conn.ExecContext(ctx,
			"UPDATE articles SET content = ? WHERE id = ?", *content, id)
	}
	return err
}

// ListArticleMetadata returns (id, title, published) per article in storage order.
func (db *DB) ListArticleMetadata(ctx context.Context) ([]model.ArticleMetadata, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT id, title, published FROM articles")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var metas []model.ArticleMetadata
	for rows.Next() {
		var m model.ArticleMetadata
		var published sql.NullTime
		if err := rows.Scan(&m.ID, &m.Title, &published); err != nil {
			return nil, err
		}
		if published.Valid {
			m.Published = published.Time
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// ListArticlesByPublishedDesc returns full rows, newest first.
func (db *DB) ListArticlesByPublishedDesc(ctx context.Context) ([]model.Article, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, title, content, published FROM articles ORDER BY published DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	var articles []model.Article
	for rows.Next() {
		var a model.Article
		var published sql.NullTime
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &published); err != nil {
			return nil, err
		}
		if published.Valid {
			a.Published = published.Time
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanArticle(row *sql.Row) (model.Article, error) {
	var a model.Article
	var published sql.NullTime
	err := row.Scan(&a.ID, &a.Title, &a.Content, &published)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Article{}, ErrNotFound
	}
	if err != nil {
		return model.Article{}, err
	}
	if published.Valid {
		a.Published = published.Time
	}
	return a, nil
}

// --- Secret Methods ---

// CreateSecret generates and persists a new token, returning the plaintext
// exactly once.
func (db *DB) CreateSecret(ctx context.Context, description string) (string, error) {
	token, err := newSecretToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	desc := sql.NullString{String: description, Valid: description != ""}
	_, err = db.conn.ExecContext(ctx,
		"INSERT INTO secrets (secret, description) VALUES (?, ?)", token, desc)
	if err != nil {
		return "", fmt.Errorf("insert secret: %w", err)
	}
	return token, nil
}

// ListSecrets returns (id, description) pairs, never the tokens.
func (db *DB) ListSecrets(ctx context.Context) ([]model.SecretInfo, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT id, description FROM secrets")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var infos []model.SecretInfo
	for rows.Next() {
		var info model.SecretInfo
		var desc sql.NullString
		if err := rows.Scan(&info.ID, &desc); err != nil {
			return nil, err
		}
		info.Description = desc.String
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// RevokeSecret deletes a secret by id. Revoking a missing id is not an error.
func (db *DB) RevokeSecret(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM secrets WHERE id = ?", id)
	return err
}

// IsValidSecret reports whether the token exists, by exact match.
func (db *DB) IsValidSecret(ctx context.Context, token string) (bool, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		"SELECT id FROM secrets WHERE secret = ?", token).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
