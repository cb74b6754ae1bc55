package api

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bryan-buckman/quill/internal/database"
	"github.com/bryan-buckman/quill/internal/model"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestDispatcher(t *testing.T) (*Dispatcher, database.Store, string) {
	t.Helper()
	store := newTestStore(t)
	token, err := store.CreateSecret(context.Background(), "test")
	if err != nil {
		t.Fatalf("CreateSecret: %v", err)
	}
	return NewDispatcher(store, store, nil), store, token
}

func TestDispatchInvalidSecret(t *testing.T) {
	d, store, _ := newTestDispatcher(t)
	ctx := context.Background()

	ops := []Operation{
		CreateArticle{Title: "t", Content: "c"},
		GetArticle{ID: "x"},
		YankArticle{ID: "x"},
		UpdateArticle{ID: "x"},
		ListArticles{},
	}
	for _, op := range ops {
		resp := d.Dispatch(ctx, Envelope{Secret: "bogus", Request: op})
		e, ok := resp.(Error)
		if !ok || e.Message != "Invalid secret" {
			t.Errorf("%T with bad secret: got %#v, want Error(Invalid secret)", op, resp)
		}
	}

	// No operation was attempted: the store is still empty.
	metas, err := store.ListArticleMetadata(ctx)
	if err != nil {
		t.Fatalf("ListArticleMetadata: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("store mutated despite invalid secret: %d articles", len(metas))
	}
}

func TestDispatchCreateGetBySlug(t *testing.T) {
	d, _, token := newTestDispatcher(t)
	ctx := context.Background()

	resp := d.Dispatch(ctx, Envelope{Secret: token, Request: CreateArticle{
		Title:   "Hello, World!",
		Content: "some *content*",
	}})
	created, ok := resp.(ArticleID)
	if !ok {
		t.Fatalf("create: got %#v, want ArticleID", resp)
	}

	resp = d.Dispatch(ctx, Envelope{Secret: token, Request: GetArticle{Slug: "Hello_World"}})
	full, ok := resp.(FullArticle)
	if !ok {
		t.Fatalf("get by slug: got %#v, want FullArticle", resp)
	}
	if full.Article.ID != created.ID || full.Article.Content != "some *content*" {
		t.Errorf("slug fetch returned wrong article: %+v", full.Article)
	}

	resp = d.Dispatch(ctx, Envelope{Secret: token, Request: GetArticle{ID: created.ID}})
	if full, ok := resp.(FullArticle); !ok || full.Article.Title != "Hello, World!" {
		t.Errorf("get by id: got %#v", resp)
	}
}

func TestDispatchGetNotFound(t *testing.T) {
	d, _, token := newTestDispatcher(t)
	resp := d.Dispatch(context.Background(), Envelope{Secret: token, Request: GetArticle{ID: "missing"}})
	if e, ok := resp.(Error); !ok || e.Message != "not found" {
		t.Errorf("got %#v, want Error(not found)", resp)
	}
}

func TestDispatchYankUnconditional(t *testing.T) {
	d, store, token := newTestDispatcher(t)
	ctx := context.Background()

	a, err := store.InsertArticle(ctx, "doomed", "c")
	if err != nil {
		t.Fatalf("InsertArticle: %v", err)
	}
	for i := 0; i < 2; i++ {
		resp := d.Dispatch(ctx, Envelope{Secret: token, Request: YankArticle{ID: a.ID}})
		if _, ok := resp.(OK); !ok {
			t.Fatalf("yank %d: got %#v, want OK", i, resp)
		}
	}
	if _, err := store.ArticleByID(ctx, a.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("article survived yank: %v", err)
	}
}

func TestDispatchUpdate(t *testing.T) {
	d, store, token := newTestDispatcher(t)
	ctx := context.Background()

	a, err := store.InsertArticle(ctx, "old title", "old content")
	if err != nil {
		t.Fatalf("InsertArticle: %v", err)
	}

	title := "new title"
	resp := d.Dispatch(ctx, Envelope{Secret: token, Request: UpdateArticle{ID: a.ID, Title: &title}})
	if _, ok := resp.(OK); !ok {
		t.Fatalf("update: got %#v, want OK", resp)
	}
	got, err := store.ArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("ArticleByID: %v", err)
	}
	if got.Title != "new title" || got.Content != "old content" {
		t.Errorf("partial update wrong: %+v", got)
	}

	// Missing id and empty update both still answer Ok.
	resp = d.Dispatch(ctx, Envelope{Secret: token, Request: UpdateArticle{ID: "missing", Title: &title}})
	if _, ok := resp.(OK); !ok {
		t.Errorf("update of missing id: got %#v, want OK", resp)
	}
	resp = d.Dispatch(ctx, Envelope{Secret: token, Request: UpdateArticle{ID: a.ID}})
	if _, ok := resp.(OK); !ok {
		t.Errorf("no-op update: got %#v, want OK", resp)
	}
}

func TestDispatchList(t *testing.T) {
	d, store, token := newTestDispatcher(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two"} {
		if _, err := store.InsertArticle(ctx, title, "c"); err != nil {
			t.Fatalf("InsertArticle: %v", err)
		}
	}
	resp := d.Dispatch(ctx, Envelope{Secret: token, Request: ListArticles{}})
	list, ok := resp.(MetadataList)
	if !ok {
		t.Fatalf("list: got %#v, want MetadataList", resp)
	}
	if len(list.Articles) != 2 {
		t.Errorf("got %d articles, want 2", len(list.Articles))
	}
}

func TestDispatchRevokedSecret(t *testing.T) {
	d, store, token := newTestDispatcher(t)
	ctx := context.Background()

	resp := d.Dispatch(ctx, Envelope{Secret: token, Request: CreateArticle{Title: "t", Content: "c"}})
	if _, ok := resp.(ArticleID); !ok {
		t.Fatalf("create before revoke: got %#v", resp)
	}

	infos, err := store.ListSecrets(ctx)
	if err != nil || len(infos) != 1 {
		t.Fatalf("ListSecrets: %v, %v", infos, err)
	}
	if err := store.RevokeSecret(ctx, infos[0].ID); err != nil {
		t.Fatalf("RevokeSecret: %v", err)
	}

	resp = d.Dispatch(ctx, Envelope{Secret: token, Request: CreateArticle{Title: "t2", Content: "c2"}})
	if e, ok := resp.(Error); !ok || e.Message != "Invalid secret" {
		t.Errorf("create after revoke: got %#v, want Error(Invalid secret)", resp)
	}
}

// failingSecrets simulates a store-unavailable secret backend.
type failingSecrets struct{}

var errStoreDown = errors.New("store down")

func (failingSecrets) CreateSecret(context.Context, string) (string, error) {
	return "", errStoreDown
}
func (failingSecrets) ListSecrets(context.Context) ([]model.SecretInfo, error) {
	return nil, errStoreDown
}
func (failingSecrets) RevokeSecret(context.Context, int64) error { return errStoreDown }
func (failingSecrets) IsValidSecret(context.Context, string) (bool, error) {
	return false, errStoreDown
}

func TestDispatchStoreUnavailable(t *testing.T) {
	store := newTestStore(t)
	d := NewDispatcher(store, failingSecrets{}, nil)
	resp := d.Dispatch(context.Background(), Envelope{Secret: "any", Request: ListArticles{}})
	if e, ok := resp.(Error); !ok || e.Message != "internal error" {
		t.Errorf("got %#v, want Error(internal error)", resp)
	}
}
