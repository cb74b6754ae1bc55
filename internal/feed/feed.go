// Package feed builds the RSS projection of the article list.
package feed

import (
	"errors"
	"fmt"

	"github.com/gorilla/feeds"

	"github.com/bryan-buckman/quill/internal/config"
	"github.com/bryan-buckman/quill/internal/markdown"
	"github.com/bryan-buckman/quill/internal/model"
	"github.com/bryan-buckman/quill/internal/slug"
)

// Build renders the article list as an RSS channel. Articles are expected
// newest-first; each item carries the canonical permalink as its guid, the
// publication date in RFC-2822 form and the rendered content.
func Build(cfg *config.ServerConfig, articles []model.Article) (string, error) {
	if cfg.Domain == "" {
		return "", errors.New("feed requires domain in server config")
	}
	if cfg.Author == "" {
		return "", errors.New("feed requires author in server config")
	}

	f := &feeds.Feed{
		Title:       cfg.BlogName,
		Link:        &feeds.Link{Href: "https://" + cfg.Domain},
		Description: cfg.Description,
		Author:      &feeds.Author{Name: cfg.Author},
	}
	for _, a := range articles {
		html, err := markdown.Render(a.Content)
		if err != nil {
			return "", fmt.Errorf("article %s: %w", a.ID, err)
		}
		permalink := fmt.Sprintf("https://%s/article/%s", cfg.Domain, slug.ToSlug(a.Title))
		f.Items = append(f.Items, &feeds.Item{
			Title:   a.Title,
			Link:    &feeds.Link{Href: permalink},
			Id:      permalink,
			Author:  &feeds.Author{Name: cfg.Author},
			Content: html,
			Created: a.Published,
		})
	}
	rss, err := f.ToRss()
	if err != nil {
		return "", fmt.Errorf("render feed: %w", err)
	}
	return rss, nil
}
