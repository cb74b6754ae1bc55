package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bryan-buckman/quill/internal/model"
)

// Response is a closed union mirroring the operation set. Which variant a
// given operation answers with is enforced by the dispatcher's routing, not
// by caller-side assumptions.
type Response interface {
	isResponse()
}

// ArticleID acknowledges a create with the generated id.
type ArticleID struct {
	ID string
}

// FullArticle carries one complete article row.
type FullArticle struct {
	Article model.Article
}

// MetadataList carries the (id, title, published) projection of every article.
type MetadataList struct {
	Articles []model.ArticleMetadata
}

// OK acknowledges a yank or update.
type OK struct{}

// Error is the typed failure envelope. Every per-request failure ends up
// here; the wire contract is total.
type Error struct {
	Message string
}

func (ArticleID) isResponse()    {}
func (FullArticle) isResponse()  {}
func (MetadataList) isResponse() {}
func (OK) isResponse()           {}
func (Error) isResponse()        {}

// Response type tags on the wire.
const (
	respArticleID   = "article_id"
	respArticle     = "article"
	respArticleList = "article_list"
	respOK          = "ok"
	respError       = "error"
)

type respWire struct {
	Type     string                  `json:"type"`
	ID       string                  `json:"id,omitempty"`
	Article  *model.Article          `json:"article,omitempty"`
	Articles []model.ArticleMetadata `json:"articles,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

func (r ArticleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(respWire{Type: respArticleID, ID: r.ID})
}

func (r FullArticle) MarshalJSON() ([]byte, error) {
	return json.Marshal(respWire{Type: respArticle, Article: &r.Article})
}

func (r MetadataList) MarshalJSON() ([]byte, error) {
	return json.Marshal(respWire{Type: respArticleList, Articles: r.Articles})
}

func (OK) MarshalJSON() ([]byte, error) {
	return json.Marshal(respWire{Type: respOK})
}

func (r Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(respWire{Type: respError, Error: r.Message})
}

// DecodeResponse parses a response envelope back into its variant.
func DecodeResponse(data []byte) (Response, error) {
	var w respWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Type {
	case respArticleID:
		return ArticleID{ID: w.ID}, nil
	case respArticle:
		if w.Article == nil {
			return nil, errors.New("article response without article")
		}
		return FullArticle{Article: *w.Article}, nil
	case respArticleList:
		return MetadataList{Articles: w.Articles}, nil
	case respOK:
		return OK{}, nil
	case respError:
		return Error{Message: w.Error}, nil
	default:
		return nil, fmt.Errorf("unknown response type %q", w.Type)
	}
}
