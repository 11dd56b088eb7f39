package jobsearch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

var (
	defaultSites     = []string{"naukri.com", "linkedin.com/jobs"}
	defaultLocations = []string{"Bangalore", "Bengaluru", "Remote"}
)

type SearchParams struct {
	Query      string   `mapstructure:"query"`
	Sites      []string `mapstructure:"sites"`
	Locations  []string `mapstructure:"locations"`
	MaxResults int      `mapstructure:"max_results"`
}

// searchItem is a single entry of the "items" array of a search response.
type searchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

type searchResponse struct {
	Items []Item `json:"items"`
}

type Item interface{}

func (c *Client) search(ctx context.Context, params *SearchParams) (*Postings, error) {
	if c.key == "" || c.cx == "" {
		return nil, errors.New("google api key and search engine id are required")
	}

	q := buildParams(params)
	q.Set("key", c.key)
	q.Set("cx", c.cx)

	var response searchResponse
	if err := c.getJSON(ctx, c.APIURL, q, &response); err != nil {
		return nil, err
	}

	c.logger.Debug("got response from custom search", zap.Int("items", len(response.Items)))

	var items []*searchItem
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &items,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.Items); err != nil {
		return nil, fmt.Errorf("decode search items: %w", err)
	}

	postings := &Postings{}
	for _, item := range items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		postings.Items = append(postings.Items, &Posting{
			Title:   strings.TrimSpace(item.Title),
			URL:     strings.TrimSpace(item.Link),
			Snippet: strings.TrimSpace(item.Snippet),
			Site:    item.DisplayLink,
		})
	}

	return postings, nil
}

// BuildQuery returns the search expression: the query followed by the site
// and location groups, e.g. `QA (site:a.com OR site:b.com) (Pune OR Remote)`.
func BuildQuery(params *SearchParams) string {
	sites := params.Sites
	if len(sites) == 0 {
		sites = defaultSites
	}
	locations := params.Locations
	if len(locations) == 0 {
		locations = defaultLocations
	}

	siteTerms := make([]string, 0, len(sites))
	for _, site := range sites {
		siteTerms = append(siteTerms, "site:"+site)
	}

	parts := []string{strings.TrimSpace(params.Query), group(siteTerms), group(locations)}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func group(terms []string) string {
	return "(" + strings.Join(terms, " OR ") + ")"
}

func buildParams(params *SearchParams) url.Values {
	num := params.MaxResults
	if num <= 0 || num > maxPerRequest {
		num = maxPerRequest
	}

	q := url.Values{}
	q.Set("q", BuildQuery(params))
	q.Set("num", strconv.Itoa(num))
	return q
}
