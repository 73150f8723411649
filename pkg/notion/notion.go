// Package notion retrieves a page's title and flattened block text from the
// Notion API. Only text-bearing content survives the projection: rich-text
// runs and table-row cells; every other block shape is skipped.
package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/voxboard/voxboard/assistant/contract"
)

type Config struct {
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.notion.com"`
	Version string        `envconfig:"VERSION" split_words:"true" default:"2022-06-28"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type Client struct {
	http *resty.Client
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: notion api key is required", contractx.ErrValidation)
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Notion-Version", cfg.Version).
		SetHeader("Accept", "application/json")

	return &Client{http: http}, nil
}

type richText struct {
	Type string `json:"type"`
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
	PlainText string `json:"plain_text"`
}

type pageResponse struct {
	Properties map[string]struct {
		Type  string     `json:"type"`
		Title []richText `json:"title"`
	} `json:"properties"`
}

// block keeps the raw message so the type-named content key can be pulled
// out after decoding ("paragraph", "table_row", ...).
type block map[string]json.RawMessage

type blockContent struct {
	RichText []richText   `json:"rich_text"`
	Cells    [][]richText `json:"cells"`
}

type blocksResponse struct {
	Results    []block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// PageText returns the page title (from its title-typed property, if any)
// followed by each non-empty block text, joined with blank lines.
func (c *Client) PageText(ctx context.Context, pageID string) (string, error) {
	title, err := c.pageTitle(ctx, pageID)
	if err != nil {
		return "", err
	}

	blocks, err := c.allBlocks(ctx, pageID)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(blocks)+1)
	if title != "" {
		parts = append(parts, title)
	}
	for _, b := range blocks {
		if text := blockText(b); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	log.Debug().Str("page_id", pageID).Int("blocks", len(blocks)).Msg("notion page flattened")
	return strings.Join(parts, "\n\n"), nil
}

func (c *Client) pageTitle(ctx context.Context, pageID string) (string, error) {
	var page pageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&page).
		Get("/v1/pages/" + pageID)
	if err != nil {
		return "", fmt.Errorf("%w: notion page %s: %v", contractx.ErrUnavailable, pageID, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: notion page %s status=%d body=%s",
			contractx.ErrUpstreamStatus, pageID, resp.StatusCode(), resp.String())
	}

	for _, prop := range page.Properties {
		if prop.Type == "title" {
			return flattenRichText(prop.Title), nil
		}
	}
	return "", nil
}

// allBlocks pages through the child block list with the start_cursor token.
// Requests are sequential; the cursor comes from the previous response.
func (c *Client) allBlocks(ctx context.Context, pageID string) ([]block, error) {
	var all []block
	cursor := ""

	for {
		var page blocksResponse
		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("page_size", "100").
			SetResult(&page)
		if cursor != "" {
			req.SetQueryParam("start_cursor", cursor)
		}

		resp, err := req.Get("/v1/blocks/" + pageID + "/children")
		if err != nil {
			return nil, fmt.Errorf("%w: notion blocks %s: %v", contractx.ErrUnavailable, pageID, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: notion blocks %s status=%d body=%s",
				contractx.ErrUpstreamStatus, pageID, resp.StatusCode(), resp.String())
		}

		all = append(all, page.Results...)
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	return all, nil
}

// blockText projects one block to text: rich-text runs concatenated, or
// table-row cells joined with a separator. Anything else contributes nothing.
func blockText(b block) string {
	var blockType string
	if err := json.Unmarshal(b["type"], &blockType); err != nil || blockType == "" {
		return ""
	}

	raw, ok := b[blockType]
	if !ok {
		return ""
	}
	var content blockContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return ""
	}

	if len(content.RichText) > 0 {
		return flattenRichText(content.RichText)
	}
	if len(content.Cells) > 0 {
		cells := make([]string, 0, len(content.Cells))
		for _, cell := range content.Cells {
			cells = append(cells, flattenRichText(cell))
		}
		return strings.Join(cells, " | ")
	}
	return ""
}

func flattenRichText(runs []richText) string {
	var sb strings.Builder
	for _, run := range runs {
		if run.Type == "text" {
			sb.WriteString(run.Text.Content)
		} else {
			sb.WriteString(run.PlainText)
		}
	}
	return sb.String()
}
