// Package database provides storage backends for the blog.
package database

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/bryan-buckman/quill/internal/model"
)

// ErrNotFound is returned when a requested article does not exist.
var ErrNotFound = errors.New("article not found")

// ArticleStore owns the articles table.
type ArticleStore interface {
	// InsertArticle stamps a fresh id and the current timestamp, persists the
	// row and returns it including the generated fields.
	InsertArticle(ctx context.Context, title, content string) (model.Article, error)
	ArticleByID(ctx context.Context, id string) (model.Article, error)
	// ArticleBySlug loads all (id, title) pairs, scans for the first title
	// whose derived slug matches, then fetches that row by id. Two round
	// trips; fine while the article count stays small.
	ArticleBySlug(ctx context.Context, slug string) (model.Article, error)
	// DeleteArticle is unconditional: deleting a missing id succeeds silently.
	DeleteArticle(ctx context.Context, id string) error
	// UpdateArticle rewrites exactly the supplied fields. Supplying neither
	// is a no-op, supplying both issues a single combined write. The
	// published timestamp is never touched and a missing id affects zero
	// rows without error.
	UpdateArticle(ctx context.Context, id string, title, content *string) error
	// ListArticleMetadata returns (id, title, published) in storage order.
	ListArticleMetadata(ctx context.Context) ([]model.ArticleMetadata, error)
	// ListArticlesByPublishedDesc returns full rows, newest first.
	ListArticlesByPublishedDesc(ctx context.Context) ([]model.Article, error)
}

// SecretStore owns the secrets table.
type SecretStore interface {
	// CreateSecret generates a random 64-character alphanumeric token,
	// persists it with the optional description and returns the plaintext
	// token. The store never returns it again.
	CreateSecret(ctx context.Context, description string) (string, error)
	// ListSecrets never exposes token values.
	ListSecrets(ctx context.Context) ([]model.SecretInfo, error)
	// RevokeSecret hard-deletes by id; revoking a missing id is not an error.
	RevokeSecret(ctx context.Context, id int64) error
	// IsValidSecret is a case-sensitive existence check, hit on every API
	// call with no caching of validity.
	IsValidSecret(ctx context.Context, token string) (bool, error)
}

// Store defines the interface for database operations.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	ArticleStore
	SecretStore
	Close() error

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string
}

// Open picks a backend from the configured database string: a postgres://
// URL selects PostgreSQL, anything else is treated as an SQLite file path.
func Open(db string) (Store, error) {
	if strings.HasPrefix(db, "postgres://") {
		return NewPostgres(db)
	}
	return New(db)
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenLength is the length of generated secret tokens.
const TokenLength = 64

// newSecretToken draws a TokenLength-character alphanumeric token from crypto/rand.
func newSecretToken() (string, error) {
	var b strings.Builder
	b.Grow(TokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < TokenLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(tokenAlphabet[n.Int64()])
	}
	return b.String(), nil
}
