package apiclient

import (
	"context"
	"net/http"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
)

// Credits returns the caller's credit position.
func (c *Client) Credits(ctx context.Context) (api.Credits, error) {
	var balance api.Credits
	if err := c.doJSON(ctx, http.MethodGet, "/api/credits", nil, nil, &balance); err != nil {
		return api.Credits{}, err
	}
	return balance, nil
}

// Profile returns the caller's pipeline switches.
func (c *Client) Profile(ctx context.Context) (api.Profile, error) {
	var prof api.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/api/profile", nil, nil, &prof); err != nil {
		return api.Profile{}, err
	}
	return prof, nil
}

// PutProfile replaces the caller's pipeline switches.
func (c *Client) PutProfile(ctx context.Context, prof api.Profile) (api.Profile, error) {
	var stored api.Profile
	if err := c.doJSON(ctx, http.MethodPut, "/api/profile", nil, prof, &stored); err != nil {
		return api.Profile{}, err
	}
	return stored, nil
}

// Status returns daemon runtime information.
func (c *Client) Status(ctx context.Context) (api.DaemonStatus, error) {
	var status api.DaemonStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/status", nil, nil, &status); err != nil {
		return api.DaemonStatus{}, err
	}
	return status, nil
}
