// Package store is the thin CRUD facade over the remote trade record
// store. The store assigns every identifier; the client only ever
// fetches the full collection, creates records, and deletes by id.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/username/tradebook/backend/src/logger"
	"github.com/username/tradebook/backend/src/models"
	"github.com/username/tradebook/backend/src/validation"
)

// StoreError reports a network or HTTP failure from the remote store.
// StatusCode is zero when the request never produced a response.
type StoreError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *StoreError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("store %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Client talks to the trades store over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchAll retrieves the full current collection. Dates arrive in
// ISO-8601 wire form; every decoded record is re-validated against the
// schema before it is accepted, so a misbehaving store cannot inject
// malformed rows into the ledger.
func (c *Client) FetchAll(ctx context.Context) ([]models.TradeRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/trades", nil)
	if err != nil {
		return nil, &StoreError{Op: "fetch", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &StoreError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StoreError{Op: "fetch", StatusCode: resp.StatusCode, Err: fmt.Errorf("GET /trades returned %s", resp.Status)}
	}

	var records []models.TradeRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &StoreError{Op: "fetch", Err: fmt.Errorf("decoding response: %w", err)}
	}
	for _, rec := range records {
		if err := validation.CheckRecord(rec); err != nil {
			return nil, fmt.Errorf("store returned invalid trade (id %d): %w", rec.ID, err)
		}
	}
	return records, nil
}

// Create submits each record as an independent creation request, with the
// id stripped so the store assigns its own. Requests are issued
// concurrently; see BatchResult for the partial-failure contract.
func (c *Client) Create(ctx context.Context, records []models.TradeRecord) (*BatchResult, error) {
	return c.batch(ctx, "create", len(records), func(i int) error {
		rec := records[i]
		rec.ID = 0 // omitted from the JSON body
		body, err := json.Marshal(rec)
		if err != nil {
			return &StoreError{Op: "create", Err: err}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/trades", bytes.NewReader(body))
		if err != nil {
			return &StoreError{Op: "create", Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &StoreError{Op: "create", Err: err}
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			return &StoreError{Op: "create", StatusCode: resp.StatusCode, Err: fmt.Errorf("POST /trades returned %s", resp.Status)}
		}
		return nil
	})
}

// DeleteByIDs issues one deletion request per id, concurrently. Deleting
// an id the store no longer knows is not treated as a failure.
func (c *Client) DeleteByIDs(ctx context.Context, ids []int64) (*BatchResult, error) {
	return c.batch(ctx, "delete", len(ids), func(i int) error {
		url := fmt.Sprintf("%s/trades/%d", c.baseURL, ids[i])
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
		if err != nil {
			return &StoreError{Op: "delete", Err: err}
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &StoreError{Op: "delete", Err: err}
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
		switch resp.StatusCode {
		case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
			return nil
		default:
			return &StoreError{Op: "delete", StatusCode: resp.StatusCode, Err: fmt.Errorf("DELETE %s returned %s", url, resp.Status)}
		}
	})
}

// batch runs n sub-requests concurrently and waits for all of them to
// settle. Already-issued requests are never rolled back when a sibling
// fails; the caller must re-fetch to observe true store state.
func (c *Client) batch(ctx context.Context, op string, n int, do func(i int) error) (*BatchResult, error) {
	result := &BatchResult{Op: op, errs: make([]error, n)}
	if n == 0 {
		return result, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result.errs[i] = do(i)
		}(i)
	}
	wg.Wait()

	if err := result.FirstErr(); err != nil {
		logger.L.Error("Store batch completed with failures", "op", op, "total", n, "failed", len(result.Failed()))
		return result, err
	}
	return result, nil
}
