// Package model defines shared data structures.
package model

import "time"

// Article is a published post. The id is generated once at creation and
// never reused; published is set at creation and never mutated afterwards.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // raw markdown, rendered by the presentation layer
	Published time.Time `json:"published"`
}

// ArticleMetadata is the projection returned by list views: everything
// except the content.
type ArticleMetadata struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Published time.Time `json:"published"`
}

// Secret is a bearer credential. Any row present in the secrets table is
// valid; there is no expiry and no per-secret permission set.
type Secret struct {
	ID          int64
	Token       string
	Description string
}

// SecretInfo is what secret listings expose. The token itself is shown
// exactly once at creation and never again.
type SecretInfo struct {
	ID          int64
	Description string
}
