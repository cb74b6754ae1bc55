// Package client talks to a remote blog's API endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bryan-buckman/quill/internal/api"
	"github.com/bryan-buckman/quill/internal/model"
)

// Client posts request envelopes to {Addr}/api with the configured secret.
type Client struct {
	http.Client
	Addr   string
	Secret string
}

// New returns a client for the given base address and secret.
func New(addr, secret string) *Client {
	return &Client{Addr: addr, Secret: secret}
}

// Publish creates a new article and returns its id.
func (c *Client) Publish(ctx context.Context, title, content string) (string, error) {
	resp, err := c.do(ctx, api.CreateArticle{Title: title, Content: content})
	if err != nil {
		return "", err
	}
	created, ok := resp.(api.ArticleID)
	if !ok {
		return "", fmt.Errorf("unexpected response %T", resp)
	}
	return created.ID, nil
}

// List returns the metadata of every article.
func (c *Client) List(ctx context.Context) ([]model.ArticleMetadata, error) {
	resp, err := c.do(ctx, api.ListArticles{})
	if err != nil {
		return nil, err
	}
	list, ok := resp.(api.MetadataList)
	if !ok {
		return nil, fmt.Errorf("unexpected response %T", resp)
	}
	return list.Articles, nil
}

// Get fetches one article by id.
func (c *Client) Get(ctx context.Context, id string) (model.Article, error) {
	resp, err := c.do(ctx, api.GetArticle{ID: id})
	if err != nil {
		return model.Article{}, err
	}
	full, ok := resp.(api.FullArticle)
	if !ok {
		return model.Article{}, fmt.Errorf("unexpected response %T", resp)
	}
	return full.Article, nil
}

// Yank permanently deletes an article.
func (c *Client) Yank(ctx context.Context, id string) error {
	resp, err := c.do(ctx, api.YankArticle{ID: id})
	if err != nil {
		return err
	}
	if _, ok := resp.(api.OK); !ok {
		return fmt.Errorf("unexpected response %T", resp)
	}
	return nil
}

// Update rewrites the supplied fields of an article.
func (c *Client) Update(ctx context.Context, id string, title, content *string) error {
	resp, err := c.do(ctx, api.UpdateArticle{ID: id, Title: title, Content: content})
	if err != nil {
		return err
	}
	if _, ok := resp.(api.OK); !ok {
		return fmt.Errorf("unexpected response %T", resp)
	}
	return nil
}

// do posts one envelope and decodes the response. A typed error envelope
// from the server comes back as a plain error.
func (c *Client) do(ctx context.Context, op api.Operation) (api.Response, error) {
	payload, err := json.Marshal(api.Envelope{Secret: c.Secret, Request: op})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Addr+"/api", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server answered %s: %s", resp.Status, body)
	}
	decoded, err := api.DecodeResponse(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if e, ok := decoded.(api.Error); ok {
		return nil, fmt.Errorf("server error: %s", e.Message)
	}
	return decoded, nil
}
