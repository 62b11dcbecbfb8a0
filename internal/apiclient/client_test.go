package apiclient_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/apiclient"
)

func newTestClient(t *testing.T, handler http.Handler, token string) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL, token)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestNewRequiresBind(t *testing.T) {
	if _, err := apiclient.New("   ", ""); err == nil {
		t.Fatal("expected error for empty bind")
	}
}

func TestNewAddsSchemeToBareBind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.DaemonStatus{Running: true})
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(strings.TrimPrefix(srv.URL, "http://"), "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.Running {
		t.Fatalf("unexpected status: %#v", status)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(api.Credits{Tier: "standard"})
	}), "token-123")

	if _, err := client.Credits(context.Background()); err != nil {
		t.Fatalf("Credits failed: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestListItemsBuildsQuery(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(api.ListResponse{Total: 1, Items: []api.Item{{ID: 7}}})
	}), "")

	resp, err := client.ListItems(context.Background(), apiclient.ListQuery{
		Status: "pending",
		Limit:  25,
		Offset: 50,
	})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].ID != 7 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	for key, want := range map[string]string{
		"status": "pending",
		"limit":  "25",
		"offset": "50",
	} {
		if got := gotQuery.Get(key); got != want {
			t.Fatalf("query[%s]: expected %q, got %q", key, want, got)
		}
	}
}

func TestCreateItemPostsPayload(t *testing.T) {
	var gotMethod, gotPath string
	var gotReq api.CreateItemRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.ItemResponse{Item: api.Item{ID: 3, MainKeyword: gotReq.MainKeyword}})
	}), "")

	item, err := client.CreateItem(context.Background(), api.CreateItemRequest{MainKeyword: "new topic"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/items" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if item.ID != 3 || item.MainKeyword != "new topic" {
		t.Fatalf("unexpected item: %#v", item)
	}
}

func TestDeleteItemAcceptsNoContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/items/12" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}), "")

	if err := client.DeleteItem(context.Background(), 12); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
}

func TestAPIErrorCarriesEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{
			Error:     "insufficient credit: 3 required, 1 available",
			Required:  3,
			Available: 1,
		})
	}), "")

	_, err := client.ProcessAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired || apiErr.Required != 3 || apiErr.Available != 1 {
		t.Fatalf("unexpected envelope: %#v", apiErr)
	}
	if !apiclient.IsStatus(err, http.StatusPaymentRequired) {
		t.Fatal("IsStatus should match 402")
	}
	if !strings.Contains(apiErr.Error(), "insufficient credit") {
		t.Fatalf("unexpected message: %q", apiErr.Error())
	}
}

func TestAPIErrorWithoutEnvelopeUsesStatusText(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}), "")

	_, err := client.Status(context.Background())
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTeapot || apiErr.Message == "" {
		t.Fatalf("unexpected envelope: %#v", apiErr)
	}
}

func TestImportUploadsMultipart(t *testing.T) {
	var gotFilename, gotContent string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile failed: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		data, _ := io.ReadAll(file)
		gotContent = string(data)
		_ = json.NewEncoder(w).Encode(api.ImportReport{Created: 2})
	}), "")

	report, err := client.Import(context.Background(), "/tmp/backlog.csv", strings.NewReader("Main Keyword\na\nb\n"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("unexpected report: %#v", report)
	}
	if gotFilename != "backlog.csv" {
		t.Fatalf("expected base filename, got %q", gotFilename)
	}
	if !strings.Contains(gotContent, "Main Keyword") {
		t.Fatalf("unexpected upload body: %q", gotContent)
	}
}

func TestExportStreamsBody(t *testing.T) {
	var gotFormat string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFormat = r.URL.Query().Get("format")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, "main_keyword\nexported\n")
	}), "")

	var buf bytes.Buffer
	if err := client.Export(context.Background(), "csv", &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if gotFormat != "csv" {
		t.Fatalf("expected format query, got %q", gotFormat)
	}
	if !strings.Contains(buf.String(), "exported") {
		t.Fatalf("unexpected export body: %q", buf.String())
	}
}

func TestIsUnavailable(t *testing.T) {
	if !apiclient.IsUnavailable(apiclient.ErrUnavailable) {
		t.Fatal("sentinel must read as unavailable")
	}
	if apiclient.IsUnavailable(errors.New("other")) {
		t.Fatal("generic errors are not unavailability")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	bind := srv.URL
	srv.Close()

	client, err := apiclient.New(bind, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = client.Status(context.Background())
	if err == nil {
		t.Fatal("expected connection failure")
	}
	if !apiclient.IsUnavailable(err) {
		t.Fatalf("connection refusal should read as unavailable, got %v", err)
	}
}
