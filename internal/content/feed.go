package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avintas/shootout/internal/shootout"
)

// Feed fetches the question list from the hosted content API: a GET
// returning a flat JSON array of tagged question records. Alternative
// question source for deployments without direct Postgres access.
type Feed struct {
	url        string
	httpClient *http.Client
}

var _ shootout.QuestionSource = (*Feed)(nil)

func NewFeed(url string, httpClient *http.Client) *Feed {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Feed{url: url, httpClient: httpClient}
}

func (f *Feed) Questions(ctx context.Context) ([]shootout.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch question feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("question feed non-200: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read question feed: %w", err)
	}
	return shootout.DecodeQuestions(body)
}
