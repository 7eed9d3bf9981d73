// Package ledger orchestrates the trade collection: loading from the
// remote store, CSV import/export, single-row add, multi-row delete,
// and the edit/selection session that mediates user gestures.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
	"github.com/username/tradebook/backend/src/logger"
	"github.com/username/tradebook/backend/src/models"
	"github.com/username/tradebook/backend/src/parsers/tradecsv"
	"github.com/username/tradebook/backend/src/store"
	"github.com/username/tradebook/backend/src/validation"
)

// ExportFileName is the fixed name of every CSV export.
const ExportFileName = "xport.csv"

const collectionKey = "trades"

// ErrNotLoaded distinguishes "no load has completed yet" from an empty
// collection.
var ErrNotLoaded = errors.New("trade collection not yet loaded")

// ErrImportInFlight rejects an import started while another is running.
// Imports are serialized; callers should disable the trigger for the
// duration rather than queueing.
var ErrImportInFlight = errors.New("an import is already in progress")

// StoreClient is the full contract the controller needs from the remote
// store. No update verb exists; edits are modeled as delete plus create.
type StoreClient interface {
	FetchAll(ctx context.Context) ([]models.TradeRecord, error)
	Create(ctx context.Context, records []models.TradeRecord) (*store.BatchResult, error)
	DeleteByIDs(ctx context.Context, ids []int64) (*store.BatchResult, error)
}

// Row is a trade record with its derived total, ready for display.
type Row struct {
	models.TradeRecord
	Total float64
}

// Controller owns the authoritative in-memory trade collection and
// reconciles it with the remote store. The collection cache is replaced
// wholesale after every successful store round trip, never patched in
// place, so readers observe the previous snapshot until a reload lands.
type Controller struct {
	client   StoreClient
	cache    *gocache.Cache
	notifier Notifier

	importing     atomic.Bool
	onImportStart func()
}

func NewController(client StoreClient, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = SlogNotifier{}
	}
	return &Controller{
		client:   client,
		cache:    gocache.New(gocache.NoExpiration, 0),
		notifier: notifier,
	}
}

// SetOnImportStart registers a hook invoked before an import touches the
// store. The session uses it to discard an active draft first.
func (c *Controller) SetOnImportStart(fn func()) { c.onImportStart = fn }

// Load fetches the full collection and swaps it into the cache.
func (c *Controller) Load(ctx context.Context) error {
	records, err := c.client.FetchAll(ctx)
	if err != nil {
		logger.L.Error("Failed to load trade collection", "error", err)
		return err
	}
	c.cache.Set(collectionKey, records, gocache.NoExpiration)
	logger.L.Debug("Trade collection loaded", "count", len(records))
	return nil
}

// Records returns the current snapshot, or ErrNotLoaded when no load has
// completed since the last invalidation. An empty loaded collection is
// a nil slice with a nil error.
func (c *Controller) Records() ([]models.TradeRecord, error) {
	cached, found := c.cache.Get(collectionKey)
	if !found {
		return nil, ErrNotLoaded
	}
	return cached.([]models.TradeRecord), nil
}

// Invalidate drops the cached snapshot; the next read requires a load.
func (c *Controller) Invalidate() { c.cache.Delete(collectionKey) }

// ImportCSV parses and validates the file, then replaces the entire
// remote collection: every existing record is deleted by id and every
// parsed record created, followed by a reload. Any failure leaves the
// in-memory collection unchanged and raises a single failure notice; no
// partial import is ever applied to the cache.
func (c *Controller) ImportCSV(ctx context.Context, r io.Reader) error {
	if !c.importing.CompareAndSwap(false, true) {
		return ErrImportInFlight
	}
	defer c.importing.Store(false)

	if c.onImportStart != nil {
		c.onImportStart()
	}

	rows, err := tradecsv.Parse(r)
	if err != nil {
		c.notifier.Notify(Notice{Op: OpImport, Message: fmt.Sprintf("Import failed: %v", err)})
		return err
	}
	records, err := validation.ValidateAll(rows)
	if err != nil {
		c.notifier.Notify(Notice{Op: OpImport, Message: fmt.Sprintf("Import failed: %v", err)})
		return err
	}

	existing, err := c.currentOrFetch(ctx)
	if err != nil {
		c.notifier.Notify(Notice{Op: OpImport, Message: fmt.Sprintf("Import failed: %v", err)})
		return err
	}

	ids := make([]int64, 0, len(existing))
	for _, rec := range existing {
		ids = append(ids, rec.ID)
	}
	if _, err := c.client.DeleteByIDs(ctx, ids); err != nil {
		c.notifier.Notify(Notice{Op: OpImport, Message: fmt.Sprintf("Import failed: %v", err)})
		return err
	}
	if _, err := c.client.Create(ctx, records); err != nil {
		c.notifier.Notify(Notice{Op: OpImport, Message: fmt.Sprintf("Import failed: %v", err)})
		return err
	}

	if err := c.Load(ctx); err != nil {
		c.notifier.Notify(Notice{Op: OpImport, Message: fmt.Sprintf("Import failed: %v", err)})
		return err
	}
	c.notifier.Notify(Notice{Op: OpImport, Success: true, Message: fmt.Sprintf("Imported %d trades", len(records))})
	return nil
}

// ExportCSV serializes the current in-memory collection, without a fresh
// fetch, and returns the fixed file name alongside the CSV text.
func (c *Controller) ExportCSV() (string, []byte, error) {
	records, err := c.Records()
	if err != nil {
		c.notifier.Notify(Notice{Op: OpExport, Message: fmt.Sprintf("Export failed: %v", err)})
		return "", nil, err
	}
	text, err := tradecsv.Serialize(records, false)
	if err != nil {
		c.notifier.Notify(Notice{Op: OpExport, Message: fmt.Sprintf("Export failed: %v", err)})
		return "", nil, err
	}
	c.notifier.Notify(Notice{Op: OpExport, Success: true, Message: fmt.Sprintf("Exported %d trades to %s", len(records), ExportFileName)})
	return ExportFileName, []byte(text), nil
}

// AddOne validates the draft fields, creates the record in the store and
// reloads. The store keeps whatever it had on failure; there is no
// transactional guarantee beyond a single creation request.
func (c *Controller) AddOne(ctx context.Context, draft map[string]any) error {
	fields := make(map[string]any, len(draft))
	for k, v := range draft {
		fields[k] = v
	}
	// The draft sentinel must never reach the store.
	delete(fields, "id")

	rec, err := validation.Validate(fields)
	if err != nil {
		c.notifier.Notify(Notice{Op: OpAdd, Message: fmt.Sprintf("Trade could not be added: %v", err)})
		return err
	}
	if _, err := c.client.Create(ctx, []models.TradeRecord{rec}); err != nil {
		c.notifier.Notify(Notice{Op: OpAdd, Message: fmt.Sprintf("Trade could not be added: %v", err)})
		return err
	}
	if err := c.Load(ctx); err != nil {
		c.notifier.Notify(Notice{Op: OpAdd, Message: fmt.Sprintf("Trade added but reload failed: %v", err)})
		return err
	}
	c.notifier.Notify(Notice{Op: OpAdd, Success: true, Message: fmt.Sprintf("Added %s trade for %s", rec.OrderType, rec.Sym)})
	return nil
}

// DeleteMany deletes the given ids and reloads. An empty id list is a
// complete no-op: no requests, no notice.
func (c *Controller) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := c.client.DeleteByIDs(ctx, ids); err != nil {
		c.notifier.Notify(Notice{Op: OpDelete, Message: fmt.Sprintf("Deletion failed: %v", err)})
		return err
	}
	if err := c.Load(ctx); err != nil {
		c.notifier.Notify(Notice{Op: OpDelete, Message: fmt.Sprintf("Deleted trades but reload failed: %v", err)})
		return err
	}
	c.notifier.Notify(Notice{Op: OpDelete, Success: true, Message: fmt.Sprintf("Deleted %d trades", len(ids))})
	return nil
}

// Derive computes the display rows with their totals. Pure: stored
// records are never mutated.
func Derive(records []models.TradeRecord) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{TradeRecord: rec, Total: rec.Total()}
	}
	return rows
}

func (c *Controller) currentOrFetch(ctx context.Context) ([]models.TradeRecord, error) {
	if records, err := c.Records(); err == nil {
		return records, nil
	}
	return c.client.FetchAll(ctx)
}
