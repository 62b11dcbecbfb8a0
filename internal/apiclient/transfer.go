package apiclient

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
)

// Import uploads a spreadsheet for bulk enqueueing and returns the daemon's
// report. The filename extension tells the daemon which format to parse.
func (c *Client) Import(ctx context.Context, filename string, r io.Reader) (api.ImportReport, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return api.ImportReport{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return api.ImportReport{}, err
	}
	if err := mw.Close(); err != nil {
		return api.ImportReport{}, err
	}

	var report api.ImportReport
	if err := c.do(ctx, http.MethodPost, "/api/items/import", nil, &buf, mw.FormDataContentType(), &report); err != nil {
		return api.ImportReport{}, err
	}
	return report, nil
}

// Export streams the owner's queue in the given format into w. An empty
// format asks the daemon for its default.
func (c *Client) Export(ctx context.Context, format string, w io.Writer) error {
	if c == nil {
		return ErrUnavailable
	}
	values := url.Values{}
	if strings.TrimSpace(format) != "" {
		values.Set("format", format)
	}
	endpoint := c.base.ResolveReference(&url.URL{Path: "/api/items/export", RawQuery: values.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
