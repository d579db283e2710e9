package scrape

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/chronicle-hq/headline-ledger/internal/ledger"
	"github.com/chronicle-hq/headline-ledger/pkg/targets"
)

// PageFetcher retrieves one HTML page. Implementations return *FetchError on
// network failures, timeouts, and non-2xx responses.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// Selection is the outcome of applying a strategy to a document.
type Selection struct {
	Text string
	Href string
}

// Strategy locates the headline element within a parsed document. Only the
// first match counts; additional matches are ignored silently.
type Strategy interface {
	Name() string
	Select(doc *goquery.Document) (Selection, error)
}

// RecorderProvider resolves the ledger store for a target.
type RecorderProvider interface {
	StoreFor(t targets.Target) (ledger.Store, error)
}
