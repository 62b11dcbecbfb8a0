package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
)

// ListQuery narrows and pages the item listing. Zero values are omitted.
type ListQuery struct {
	Status string
	Limit  int
	Offset int
}

// CreateItem enqueues a new item and returns the stored row.
func (c *Client) CreateItem(ctx context.Context, req api.CreateItemRequest) (api.Item, error) {
	var resp api.ItemResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/items", nil, req, &resp); err != nil {
		return api.Item{}, err
	}
	return resp.Item, nil
}

// Item fetches a single item by id.
func (c *Client) Item(ctx context.Context, id int64) (api.Item, error) {
	var resp api.ItemResponse
	if err := c.doJSON(ctx, http.MethodGet, itemPath(id), nil, nil, &resp); err != nil {
		return api.Item{}, err
	}
	return resp.Item, nil
}

// ListItems returns one page of items plus the owner's status counts.
func (c *Client) ListItems(ctx context.Context, q ListQuery) (api.ListResponse, error) {
	values := url.Values{}
	if strings.TrimSpace(q.Status) != "" {
		values.Set("status", q.Status)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}

	var resp api.ListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/items", values, nil, &resp); err != nil {
		return api.ListResponse{}, err
	}
	return resp, nil
}

// UpdateItem patches an item's request fields. Nil request fields keep their
// stored values.
func (c *Client) UpdateItem(ctx context.Context, id int64, req api.UpdateItemRequest) (api.Item, error) {
	var resp api.ItemResponse
	if err := c.doJSON(ctx, http.MethodPatch, itemPath(id), nil, req, &resp); err != nil {
		return api.Item{}, err
	}
	return resp.Item, nil
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(id), nil, nil, nil)
}

// ProcessItem asks the daemon to admit one item for processing.
func (c *Client) ProcessItem(ctx context.Context, id int64) (api.ProcessReceipt, error) {
	var receipt api.ProcessReceipt
	if err := c.doJSON(ctx, http.MethodPost, itemPath(id)+"/process", nil, nil, &receipt); err != nil {
		return api.ProcessReceipt{}, err
	}
	return receipt, nil
}

// ProcessAll asks the daemon to admit the entire pending backlog.
func (c *Client) ProcessAll(ctx context.Context) (api.ProcessReceipt, error) {
	var receipt api.ProcessReceipt
	if err := c.doJSON(ctx, http.MethodPost, "/api/items/process-all", nil, nil, &receipt); err != nil {
		return api.ProcessReceipt{}, err
	}
	return receipt, nil
}

func itemPath(id int64) string {
	return fmt.Sprintf("/api/items/%d", id)
}
