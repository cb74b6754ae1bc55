package api

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bryan-buckman/quill/internal/database"
	"github.com/bryan-buckman/quill/internal/model"
)

// Dispatcher authenticates a caller and routes one content operation to the
// article store. It is stateless per call: every request re-validates its
// secret against the store and every failure is confined to that request's
// response.
type Dispatcher struct {
	articles database.ArticleStore
	secrets  database.SecretStore
	log      *zap.SugaredLogger
}

// NewDispatcher wires the dispatcher to explicitly constructed stores.
func NewDispatcher(articles database.ArticleStore, secrets database.SecretStore, log *zap.SugaredLogger) *Dispatcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Dispatcher{articles: articles, secrets: secrets, log: log}
}

// Dispatch validates the envelope's secret and executes its operation.
// An invalid secret short-circuits before any operation is attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) Response {
	valid, err := d.secrets.IsValidSecret(ctx, env.Secret)
	if err != nil {
		return d.internal("validate secret", err)
	}
	if !valid {
		return Error{Message: "Invalid secret"}
	}

	switch op := env.Request.(type) {
	case CreateArticle:
		article, err := d.articles.InsertArticle(ctx, op.Title, op.Content)
		if err != nil {
			return d.internal("create article", err)
		}
		return ArticleID{ID: article.ID}

	case GetArticle:
		article, err := d.getArticle(ctx, op)
		if errors.Is(err, database.ErrNotFound) {
			return Error{Message: "not found"}
		}
		if err != nil {
			return d.internal("get article", err)
		}
		return FullArticle{Article: article}

	case YankArticle:
		if err := d.articles.DeleteArticle(ctx, op.ID); err != nil {
			return d.internal("yank article", err)
		}
		return OK{}

	case UpdateArticle:
		if err := d.articles.UpdateArticle(ctx, op.ID, op.Title, op.Content); err != nil {
			return d.internal("update article", err)
		}
		return OK{}

	case ListArticles:
		metas, err := d.articles.ListArticleMetadata(ctx)
		if err != nil {
			return d.internal("list articles", err)
		}
		return MetadataList{Articles: metas}

	default:
		return Error{Message: "unsupported operation"}
	}
}

func (d *Dispatcher) getArticle(ctx context.Context, op GetArticle) (model.Article, error) {
	if op.ID != "" {
		return d.articles.ArticleByID(ctx, op.ID)
	}
	return d.articles.ArticleBySlug(ctx, op.Slug)
}

func (d *Dispatcher) internal(op string, err error) Response {
	d.log.Errorw("api request failed", "op", op, "err", err)
	return Error{Message: "internal error"}
}
