// Package api defines the wire envelope and the request dispatcher.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the outer wire object: a bearer secret plus one operation.
type Envelope struct {
	Secret  string
	Request Operation
}

// Operation is a closed union of the five content operations. The wire form
// carries a "type" discriminator next to the operation's fields.
type Operation interface {
	isOperation()
}

// CreateArticle publishes a new article.
type CreateArticle struct {
	Title   string
	Content string
}

// GetArticle fetches one article, by stored id or by derived slug.
// The id wins when both are set.
type GetArticle struct {
	ID   string
	Slug string
}

// YankArticle permanently removes an article. No tombstone is kept.
type YankArticle struct {
	ID string
}

// UpdateArticle rewrites the supplied fields in place. Nil fields are left
// untouched; published never changes.
type UpdateArticle struct {
	ID      string
	Title   *string
	Content *string
}

// ListArticles returns the metadata projection of every article.
type ListArticles struct{}

func (CreateArticle) isOperation() {}
func (GetArticle) isOperation()    {}
func (YankArticle) isOperation()   {}
func (UpdateArticle) isOperation() {}
func (ListArticles) isOperation()  {}

// Operation type tags on the wire.
const (
	opCreateArticle = "create_article"
	opGetArticle    = "get_article"
	opYankArticle   = "yank_article"
	opUpdateArticle = "update_article"
	opListArticles  = "list_articles"
)

type opWire struct {
	Type    string  `json:"type"`
	ID      string  `json:"id,omitempty"`
	Slug    string  `json:"slug,omitempty"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type envelopeWire struct {
	Secret  string          `json:"secret"`
	Request json.RawMessage `json:"request"`
}

// MarshalJSON encodes the envelope with its tagged operation.
func (e Envelope) MarshalJSON() ([]byte, error) {
	w, err := encodeOperation(e.Request)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelopeWire{Secret: e.Secret, Request: raw})
}

// UnmarshalJSON decodes the envelope, rejecting unknown or malformed
// operations. Decode failures here are transport-level errors, surfaced
// before the dispatcher runs.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w envelopeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Request) == 0 {
		return errors.New("missing request")
	}
	op, err := decodeOperation(w.Request)
	if err != nil {
		return err
	}
	e.Secret = w.Secret
	e.Request = op
	return nil
}

func encodeOperation(op Operation) (opWire, error) {
	switch op := op.(type) {
	case CreateArticle:
		return opWire{Type: opCreateArticle, Title: &op.Title, Content: &op.Content}, nil
	case GetArticle:
		return opWire{Type: opGetArticle, ID: op.ID, Slug: op.Slug}, nil
	case YankArticle:
		return opWire{Type: opYankArticle, ID: op.ID}, nil
	case UpdateArticle:
		return opWire{Type: opUpdateArticle, ID: op.ID, Title: op.Title, Content: op.Content}, nil
	case ListArticles:
		return opWire{Type: opListArticles}, nil
	default:
		return opWire{}, fmt.Errorf("unknown operation %T", op)
	}
}

func decodeOperation(raw json.RawMessage) (Operation, error) {
	var w opWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	switch w.Type {
	case opCreateArticle:
		if w.Title == nil || w.Content == nil {
			return nil, errors.New("create_article requires title and content")
		}
		return CreateArticle{Title: *w.Title, Content: *w.Content}, nil
	case opGetArticle:
		if w.ID == "" && w.Slug == "" {
			return nil, errors.New("get_article requires id or slug")
		}
		return GetArticle{ID: w.ID, Slug: w.Slug}, nil
	case opYankArticle:
		if w.ID == "" {
			return nil, errors.New("yank_article requires id")
		}
		return YankArticle{ID: w.ID}, nil
	case opUpdateArticle:
		if w.ID == "" {
			return nil, errors.New("update_article requires id")
		}
		return UpdateArticle{ID: w.ID, Title: w.Title, Content: w.Content}, nil
	case opListArticles:
		return ListArticles{}, nil
	default:
		return nil, fmt.Errorf("unknown operation type %q", w.Type)
	}
}
