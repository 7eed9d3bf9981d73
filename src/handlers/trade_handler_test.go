package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradebook/backend/src/logger"
	"github.com/username/tradebook/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

// fakeRepo is an in-memory TradeRepository.
type fakeRepo struct {
	nextID  int64
	records []models.TradeRecord
	listErr error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{nextID: 1} }

func (r *fakeRepo) List() ([]models.TradeRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.TradeRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *fakeRepo) Insert(rec models.TradeRecord) (int64, error) {
	rec.ID = r.nextID
	r.nextID++
	r.records = append(r.records, rec)
	return rec.ID, nil
}

func (r *fakeRepo) DeleteByID(id int64) (bool, error) {
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestRouter(repo *fakeRepo) http.Handler {
	h := NewTradeHandler(repo)
	r := chi.NewRouter()
	r.Use(ContextualLoggerMiddleware)
	r.Get("/trades", h.HandleListTrades)
	r.Post("/trades", h.HandleCreateTrade)
	r.Delete("/trades/{id}", h.HandleDeleteTrade)
	return r
}

func TestHandleListTrades_EmptyIsJSONArray(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/trades", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestHandleCreateTrade_AssignsID(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	body := `{"date":"2017-04-02T00:00:00Z","orderType":"Buy","sym":"VAS","unitPrice":97.31,"quantity":2,"fees":2}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/trades", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)
	var created models.TradeRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, models.OrderBuy, created.OrderType)
	assert.Equal(t, time.Date(2017, time.April, 2, 0, 0, 0, 0, time.UTC), created.Date.UTC())

	// List reflects the insert.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/trades", nil))
	var listed []models.TradeRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, int64(1), listed[0].ID)
}

func TestHandleCreateTrade_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"supplied id", `{"id":9,"date":"2017-04-02T00:00:00Z","orderType":"Buy","sym":"VAS","unitPrice":1,"quantity":1,"fees":0}`},
		{"enum violation", `{"date":"2017-04-02T00:00:00Z","orderType":"Hold","sym":"VAS","unitPrice":1,"quantity":1,"fees":0}`},
		{"empty sym", `{"date":"2017-04-02T00:00:00Z","orderType":"Buy","sym":"","unitPrice":1,"quantity":1,"fees":0}`},
		{"negative price", `{"date":"2017-04-02T00:00:00Z","orderType":"Buy","sym":"VAS","unitPrice":-1,"quantity":1,"fees":0}`},
		{"malformed json", `{"date":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			router := newTestRouter(repo)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/trades", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, repo.records)
		})
	}
}

func TestHandleDeleteTrade_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.Insert(models.TradeRecord{Date: time.Now(), OrderType: models.OrderBuy, Sym: "VAS", UnitPrice: 1, Quantity: 1})
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/trades/1", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, repo.records)

	// Deleting the same id again still answers 204.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/trades/1", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestHandleDeleteTrade_BadID(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/trades/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleListTrades_RepoError(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("db gone")
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/trades", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}
