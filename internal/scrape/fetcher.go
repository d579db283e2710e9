package scrape

import (
	"context"
	"strings"

	"github.com/chronicle-hq/headline-ledger/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB

	errorSnippetBytes = 1024
)

// httpPageFetcher fetches pages through the shared httpclient contract.
type httpPageFetcher struct {
	client httpclient.Client
}

// NewPageFetcher constructs a page fetcher on top of the given HTTP client.
func NewPageFetcher(client httpclient.Client) PageFetcher {
	return &httpPageFetcher{client: client}
}

// FetchPage performs one GET and returns the body, capped at 1 MiB. Any
// transport error or non-2xx status yields a *FetchError.
func (f *httpPageFetcher) FetchPage(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	resp, err := f.client.Get(ctx, url, headers)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode()/100 != 2 {
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        errBody(resp.Body()),
		}
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	return body, nil
}

type bodySnippetError string

func (e bodySnippetError) Error() string { return string(e) }

func errBody(body []byte) error {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > errorSnippetBytes {
		snippet = snippet[:errorSnippetBytes]
	}
	if snippet == "" {
		snippet = "<empty body>"
	}
	return bodySnippetError("body: " + snippet)
}
