package jobsearch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://www.googleapis.com/customsearch/v1"
	userAgent = "spigell/resume-tailor"
	// Google Custom Search returns at most 10 items per request.
	maxPerRequest = 10
)

// Source supplies job postings in ranking order.
type Source interface {
	Search(ctx context.Context, params *SearchParams) (*Postings, error)
}

// Client talks to the Google Custom Search JSON API.
type Client struct {
	key        string
	cx         string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, key, cx string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		key:    key,
		cx:     cx,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

func (c *Client) Search(ctx context.Context, params *SearchParams) (*Postings, error) {
	return c.search(ctx, params)
}
