package crud

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"petlove-admin/internal/pagination"
	"petlove-admin/internal/upstream"
)

// Controller runs one managed collection: it owns the in-memory records, the
// dialog draft, the per-row busy flags and the pagination state. The upstream
// backend returns whole collections; filtering and paging happen here.
type Controller[T any] struct {
	cfg Config[T]
	api *upstream.Client
	log *zap.Logger

	mu         sync.Mutex
	records    []T
	loaded     bool
	gen        uint64
	cancelLoad context.CancelFunc
	busy       map[int64]string
	draft      *Draft[T]
	page       int
	query      string
}

func NewController[T any](cfg Config[T], api *upstream.Client, log *zap.Logger) *Controller[T] {
	return &Controller[T]{
		cfg:  cfg,
		api:  api,
		log:  log.With(zap.String("entity", cfg.Name)),
		busy: map[int64]string{},
		page: 1,
	}
}

func (c *Controller[T]) Name() string { return c.cfg.Name }

// Load fetches the whole collection. Starting a new Load cancels any previous
// one still in flight, and a superseded response is never committed — callers
// see ErrCancelled and must stay silent about it. On failure the previous
// records are kept.
func (c *Controller[T]) Load(ctx context.Context, bearer string) error {
	c.mu.Lock()
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	lctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancelLoad = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	res, err := c.api.Get(lctx, c.cfg.Endpoints.List, bearer)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ErrCancelled
		}
		return &RemoteError{Kind: ErrLoadFailed, Message: err.Error()}
	}
	if !res.OK() {
		return &RemoteError{Kind: ErrLoadFailed, Status: res.Status, Message: res.Message}
	}
	items, derr := upstream.DecodeList[T](res.Data)
	if derr != nil {
		return &RemoteError{Kind: ErrLoadFailed, Status: res.Status, Message: "malformed payload"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ErrCancelled
	}
	c.records = items
	c.loaded = true
	c.page = pagination.Clamp(c.page, len(items), c.cfg.pageSize())
	return nil
}

func (c *Controller[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Records returns a snapshot of the full collection.
func (c *Controller[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// PageView is what a table screen renders: one page of filtered records plus
// the pager window.
type PageView[T any] struct {
	Items      []T               `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	Pager      []pagination.Item `json:"pager"`
}

// View filters, clamps and pages in one step. The clamped page is stored back,
// so shrinking the result set moves the controller off a page that no longer
// exists.
func (c *Controller[T]) View(query string, page, size int) PageView[T] {
	c.mu.Lock()
	snapshot := make([]T, len(c.records))
	copy(snapshot, c.records)
	if size <= 0 {
		size = c.cfg.pageSize()
	}
	if page <= 0 {
		page = c.page
	}
	c.mu.Unlock()

	filtered := Filter(snapshot, query, c.cfg.SearchFields)
	page = pagination.Clamp(page, len(filtered), size)
	tp := pagination.TotalPages(len(filtered), size)

	c.mu.Lock()
	c.page = page
	c.query = query
	c.mu.Unlock()

	return PageView[T]{
		Items:      pagination.Slice(filtered, page, size),
		Total:      len(filtered),
		Page:       page,
		PageSize:   size,
		TotalPages: tp,
		Pager:      pagination.Window(page, tp, 2),
	}
}

func (c *Controller[T]) find(id int64) (int, *T) {
	for i := range c.records {
		if c.cfg.ID(&c.records[i]) == id {
			return i, &c.records[i]
		}
	}
	return -1, nil
}

// Get returns one record by id from the loaded collection.
func (c *Controller[T]) Get(id int64) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, rec := c.find(id)
	if rec == nil {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// BeginCreate opens an empty draft.
func (c *Controller[T]) BeginCreate() *Draft[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = &Draft[T]{Mode: ModeCreate, Errors: map[string]string{}}
	return c.draft
}

// BeginEdit opens a draft populated from the record. An inactive record cannot
// be edited; it has to be reactivated first, and the current draft state is
// left untouched.
func (c *Controller[T]) BeginEdit(id int64) (*Draft[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, rec := c.find(id)
	if rec == nil {
		return nil, ErrNotFound
	}
	if c.cfg.Active != nil && !c.cfg.Active(rec) {
		return nil, ErrInactiveEdit
	}
	orig := *rec
	c.draft = &Draft[T]{Mode: ModeUpdate, Record: *rec, Original: &orig, Errors: map[string]string{}}
	return c.draft, nil
}

func (c *Controller[T]) Draft() *Draft[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// CloseDraft discards the dialog state.
func (c *Controller[T]) CloseDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = nil
}

// Validate runs the entity's checks without touching the network.
func (c *Controller[T]) Validate(rec *T) map[string]string {
	return c.cfg.validateRecord(rec)
}

// Create validates and posts a new record. Validation failure issues no
// request. On success the returned record is spliced into local state; when
// the backend answers without a body the collection is reloaded instead.
func (c *Controller[T]) Create(ctx context.Context, bearer string, rec *T) (*T, error) {
	if fields := c.cfg.validateRecord(rec); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	res, err := c.api.Post(ctx, c.cfg.Endpoints.Create, bearer, rec)
	if err != nil {
		return nil, &RemoteError{Kind: ErrSubmitRejected, Message: err.Error()}
	}
	if !res.OK() {
		return nil, &RemoteError{Kind: ErrSubmitRejected, Status: res.Status, Message: res.Message}
	}
	created, derr := upstream.DecodeOne[T](res.Data)
	if derr != nil || created == nil {
		if lerr := c.Load(ctx, bearer); lerr != nil && !errors.Is(lerr, ErrCancelled) {
			c.log.Warn("reload after create failed", zap.Error(lerr))
		}
		return rec, nil
	}
	c.mu.Lock()
	c.records = append(c.records, *created)
	c.mu.Unlock()
	return created, nil
}

// Update validates and puts the draft merged over the original identifier.
// The edit block for inactive records is enforced here as well, not only at
// dialog-open time.
func (c *Controller[T]) Update(ctx context.Context, bearer string, id int64, rec *T) (*T, error) {
	c.mu.Lock()
	_, cur := c.find(id)
	if cur == nil {
		c.mu.Unlock()
		return nil, ErrNotFound
	}
	if c.cfg.Active != nil && !c.cfg.Active(cur) {
		c.mu.Unlock()
		return nil, ErrInactiveEdit
	}
	c.mu.Unlock()

	if fields := c.cfg.validateRecord(rec); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	res, err := c.api.Put(ctx, c.cfg.Endpoints.withID(c.cfg.Endpoints.Update, id), bearer, rec)
	if err != nil {
		return nil, &RemoteError{Kind: ErrSubmitRejected, Message: err.Error()}
	}
	if !res.OK() {
		return nil, &RemoteError{Kind: ErrSubmitRejected, Status: res.Status, Message: res.Message}
	}
	updated, derr := upstream.DecodeOne[T](res.Data)
	if derr != nil || updated == nil {
		updated = rec
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, _ := c.find(id); i >= 0 {
		c.records[i] = *updated
	}
	return updated, nil
}

// SubmitDraft validates and submits the open dialog. On success the draft is
// discarded; on failure it survives with its errors filled in.
func (c *Controller[T]) SubmitDraft(ctx context.Context, bearer string) (*T, error) {
	c.mu.Lock()
	d := c.draft
	c.mu.Unlock()
	if d == nil {
		return nil, ErrNotFound
	}

	var (
		out *T
		err error
	)
	switch d.Mode {
	case ModeUpdate:
		out, err = c.Update(ctx, bearer, c.cfg.ID(d.Original), &d.Record)
	default:
		out, err = c.Create(ctx, bearer, &d.Record)
	}
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.mu.Lock()
			if c.draft == d {
				d.Errors = verr.Fields
			}
			c.mu.Unlock()
		}
		return nil, err
	}
	c.CloseDraft()
	return out, nil
}

func (c *Controller[T]) markBusy(id int64, op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.busy[id]; ok {
		return ErrRowBusy
	}
	c.busy[id] = op
	return nil
}

func (c *Controller[T]) clearBusy(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.busy, id)
}

// RowBusy reports whether a mutation is in flight for the given row. Other
// rows stay interactive.
func (c *Controller[T]) RowBusy(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.busy[id]
	return ok
}

// Remove deletes a record after explicit confirmation. A 409 means the record
// is referenced elsewhere: it stays in the collection and the caller shows a
// warning, not an error. Success removes the row immediately without waiting
// for a reload.
func (c *Controller[T]) Remove(ctx context.Context, bearer string, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	c.mu.Lock()
	_, rec := c.find(id)
	c.mu.Unlock()
	if rec == nil {
		return ErrNotFound
	}
	if err := c.markBusy(id, "delete"); err != nil {
		return err
	}
	defer c.clearBusy(id)

	res, err := c.api.Delete(ctx, c.cfg.Endpoints.withID(c.cfg.Endpoints.Delete, id), bearer)
	if err != nil {
		return &RemoteError{Kind: ErrSubmitRejected, Message: err.Error()}
	}
	if res.Status == http.StatusConflict {
		return &RemoteError{Kind: ErrConflictOnDelete, Status: res.Status, Message: res.Message}
	}
	if !res.OK() {
		return &RemoteError{Kind: ErrSubmitRejected, Status: res.Status, Message: res.Message}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, _ := c.find(id); i >= 0 {
		c.records = append(c.records[:i], c.records[i+1:]...)
	}
	c.page = pagination.Clamp(c.page, len(c.records), c.cfg.pageSize())
	return nil
}

// ToggleStatus flips the active flag after explicit confirmation, since
// deactivating hides the record from default views. Only active changes; the
// record is reconciled in place.
func (c *Controller[T]) ToggleStatus(ctx context.Context, bearer string, id int64, next bool, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	c.mu.Lock()
	_, rec := c.find(id)
	c.mu.Unlock()
	if rec == nil {
		return ErrNotFound
	}
	if err := c.markBusy(id, "status"); err != nil {
		return err
	}
	defer c.clearBusy(id)

	path := c.cfg.Endpoints.withID(c.cfg.Endpoints.ToggleStatus, id)
	res, err := c.api.Patch(ctx, path, bearer, map[string]bool{"active": next})
	if err != nil {
		return &RemoteError{Kind: ErrSubmitRejected, Message: err.Error()}
	}
	if !res.OK() {
		return &RemoteError{Kind: ErrSubmitRejected, Status: res.Status, Message: res.Message}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, r := c.find(id); r != nil && c.cfg.SetActive != nil {
		c.cfg.SetActive(r, next)
	}
	return nil
}

// Mutable reports whether delete/toggle routes should exist for this entity.
func (c *Controller[T]) Mutable() bool { return c.cfg.Mutable }
