// Package hubspot is a thin client for the HubSpot CRM v3 objects API. One
// parameterized paging fetch serves every object type; callers pick the
// property projection.
package hubspot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/voxboard/voxboard/assistant/contract"
)

const (
	ObjectContacts = "contacts"
	ObjectDeals    = "deals"

	// Neutral display name when a contact has neither first nor last name.
	namePlaceholder = "(sem nome)"
)

type Config struct {
	APIKey    string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.hubapi.com"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	PageDelay time.Duration `envconfig:"PAGE_DELAY" split_words:"true" default:"200ms"`
	PageLimit int           `envconfig:"PAGE_LIMIT" split_words:"true" default:"100"`
}

// Object is one CRM record: id plus the requested property map.
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type listResponse struct {
	Results []Object `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

type Client struct {
	http      *resty.Client
	pageDelay time.Duration
	pageLimit int
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: hubspot api key is required", contractx.ErrValidation)
	}

	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = 100
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Accept", "application/json")

	return &Client{
		http:      http,
		pageDelay: cfg.PageDelay,
		pageLimit: pageLimit,
	}, nil
}

// ListObjects fetches every record of the given type with the given property
// projection, following the `after` cursor until the response carries no next
// page. Page requests are strictly sequential; the cursor is only valid once
// its predecessor response arrived. A courtesy delay separates pages. Any
// non-2xx aborts the whole fetch and discards pages already collected.
func (c *Client) ListObjects(ctx context.Context, objectType string, properties []string) ([]Object, error) {
	var all []Object
	after := ""
	pages := 0

	for {
		page, err := c.listPage(ctx, objectType, properties, after)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		pages++

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			break
		}
		after = page.Paging.Next.After

		if err := sleepCtx(ctx, c.pageDelay); err != nil {
			return nil, err
		}
	}

	log.Debug().
		Str("object_type", objectType).
		Int("records", len(all)).
		Int("pages", pages).
		Msg("hubspot fetch complete")
	return all, nil
}

func (c *Client) listPage(ctx context.Context, objectType string, properties []string, after string) (*listResponse, error) {
	var page listResponse
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", c.pageLimit)).
		SetQueryParam("properties", strings.Join(properties, ",")).
		SetQueryParam("archived", "false").
		SetResult(&page)
	if after != "" {
		req.SetQueryParam("after", after)
	}

	resp, err := req.Get("/crm/v3/objects/" + objectType)
	if err != nil {
		return nil, fmt.Errorf("%w: hubspot %s: %v", contractx.ErrUnavailable, objectType, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: hubspot %s status=%d body=%s",
			contractx.ErrUpstreamStatus, objectType, resp.StatusCode(), resp.String())
	}
	return &page, nil
}

// ContactSummaries fetches all contacts projected to the dashboard fields.
func (c *Client) ContactSummaries(ctx context.Context) ([]contractx.ContactSummary, error) {
	objects, err := c.ListObjects(ctx, ObjectContacts,
		[]string{"firstname", "lastname", "segmento_da_empresa", "numemployees"})
	if err != nil {
		return nil, err
	}

	summaries := make([]contractx.ContactSummary, 0, len(objects))
	for _, obj := range objects {
		summaries = append(summaries, contractx.ContactSummary{
			ID:                obj.ID,
			Nome:              displayName(obj.Properties["firstname"], obj.Properties["lastname"]),
			SegmentoDaEmpresa: obj.Properties["segmento_da_empresa"],
			NumEmployees:      obj.Properties["numemployees"],
		})
	}
	return summaries, nil
}

// DealLines fetches all deals formatted as the bulleted text block the
// verification prompt embeds.
func (c *Client) DealLines(ctx context.Context) (string, error) {
	objects, err := c.ListObjects(ctx, ObjectDeals,
		[]string{"dealname", "amount", "dealstage", "closedate"})
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(objects))
	for _, obj := range objects {
		p := obj.Properties
		lines = append(lines, fmt.Sprintf("- %s | %s | R$ %s | %s",
			p["dealname"], p["dealstage"], p["amount"], p["closedate"]))
	}
	return strings.Join(lines, "\n"), nil
}

func displayName(first, last string) string {
	full := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if full == "" {
		return namePlaceholder
	}
	return full
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
