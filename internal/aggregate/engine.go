package aggregate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/AdventureAdmin_Go/internal/assets"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
	"github.com/osse101/AdventureAdmin_Go/internal/metrics"
)

// Operation names used in logs and metrics
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// DefaultMaxUpdateAttempts bounds how often Update re-reads a document after a version conflict.
const DefaultMaxUpdateAttempts = 3

const idSuffixLength = 9

// ListOptions narrows List results.
type ListOptions struct {
	// OwnerID keeps only items owned by this admin.
	OwnerID string
	// Query keeps only items whose title fuzzily matches, best match first.
	Query string
}

// CreateRequest is the input of Engine.Create.
type CreateRequest struct {
	AdminID string
	Payload Fields
	Files   []assets.File
}

// UpdateRequest is the input of Engine.Update. AdminID selects the aggregate document.
type UpdateRequest struct {
	ID      string
	AdminID string
	Payload Fields
	Files   []assets.File
}

type options struct {
	now               func() time.Time
	idSuffix          func() string
	maxUpdateAttempts int
	cleanupOrphans    bool
}

// Option configures an Engine.
type Option func(*options)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDSuffix overrides the random part of generated ids.
func WithIDSuffix(fn func() string) Option {
	return func(o *options) { o.idSuffix = fn }
}

// WithMaxUpdateAttempts sets how many times Update tries before reporting a conflict.
func WithMaxUpdateAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxUpdateAttempts = n
		}
	}
}

// WithOrphanCleanup makes the engine delete uploads whose document write failed.
func WithOrphanCleanup(enabled bool) Option {
	return func(o *options) { o.cleanupOrphans = enabled }
}

// Engine implements list/get/create/update/delete for one resource type
// stored as arrays inside per-admin aggregate documents.
type Engine[T Item] struct {
	binding  Binding[T]
	store    Store[T]
	uploader assets.Uploader
	opts     options
}

// NewEngine creates an engine for binding backed by store and uploader.
func NewEngine[T Item](binding Binding[T], store Store[T], uploader assets.Uploader, opts ...Option) (*Engine[T], error) {
	if err := binding.validate(); err != nil {
		return nil, err
	}
	o := options{
		now:               time.Now,
		idSuffix:          randomSuffix,
		maxUpdateAttempts: DefaultMaxUpdateAttempts,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine[T]{binding: binding, store: store, uploader: uploader, opts: o}, nil
}

// Binding returns the resource metadata the engine was built with.
func (e *Engine[T]) Binding() Binding[T] {
	return e.binding
}

// List concatenates the arrays of every admin document.
func (e *Engine[T]) List(ctx context.Context, opts ListOptions) (items []T, err error) {
	defer e.observe(OpList, time.Now(), &err)

	docs, err := e.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", e.binding.Plural, err)
	}

	items = make([]T, 0)
	for _, doc := range docs {
		for _, item := range doc.Items {
			if opts.OwnerID != "" && item.OwnerID() != opts.OwnerID {
				continue
			}
			items = append(items, item)
		}
	}

	if q := strings.TrimSpace(opts.Query); q != "" {
		items = search(items, q)
	}
	return items, nil
}

// Get returns the first item with id across all admin documents.
func (e *Engine[T]) Get(ctx context.Context, id string) (item T, err error) {
	defer e.observe(OpGet, time.Now(), &err)

	docs, err := e.store.Documents(ctx)
	if err != nil {
		return item, fmt.Errorf("failed to load %s: %w", e.binding.Plural, err)
	}
	for _, doc := range docs {
		if i := indexOf(doc.Items, id); i >= 0 {
			return doc.Items[i], nil
		}
	}
	return item, e.notFound()
}

// Create stores a new item in the admin's document, creating the document on first use.
// Assets are uploaded before the document is written.
func (e *Engine[T]) Create(ctx context.Context, req CreateRequest) (item T, err error) {
	defer e.observe(OpCreate, time.Now(), &err)
	var zero T

	if strings.TrimSpace(req.AdminID) == "" {
		return zero, domain.NewValidationError(domain.ErrMsgAdminIDRequired)
	}
	if e.binding.RequireImage && !hasFile(req.Files, assets.FieldImage) {
		return zero, domain.NewValidationError(domain.ErrMsgImageRequired)
	}

	fields := req.Payload.Pick(e.binding.CreateFields)
	if _, err := decodeItem[T](fields); err != nil {
		return zero, err
	}

	now := e.now()
	id := e.newID(now)

	uploaded, err := e.upload(ctx, fields, req.Files, fields.Truthy(fieldFeatured))
	if err != nil {
		return zero, err
	}

	if err := e.stamp(fields, id, req.AdminID, now); err != nil {
		e.orphaned(ctx, uploaded, err)
		return zero, err
	}
	item, err = decodeItem[T](fields)
	if err != nil {
		e.orphaned(ctx, uploaded, err)
		return zero, err
	}

	if err := e.store.Append(ctx, req.AdminID, item); err != nil {
		e.orphaned(ctx, uploaded, err)
		return zero, fmt.Errorf("failed to store %s %s: %w", e.binding.Singular, id, err)
	}

	logger.FromContext(ctx).Info("Resource created",
		"resource", e.binding.Plural, "id", id, "admin_id", req.AdminID, "assets", len(uploaded))
	return item, nil
}

// Update shallow-merges the payload into the item and writes the admin's whole array back.
// The write is guarded by the document version and retried on conflict.
func (e *Engine[T]) Update(ctx context.Context, req UpdateRequest) (item T, err error) {
	defer e.observe(OpUpdate, time.Now(), &err)
	var zero T

	if strings.TrimSpace(req.AdminID) == "" {
		return zero, domain.NewValidationError(domain.ErrMsgAdminIDRequired)
	}

	patch := req.Payload.Pick(e.binding.UpdateFields)
	if _, err := decodeItem[T](patch); err != nil {
		return zero, err
	}

	galleryAllowed, err := e.galleryAllowed(ctx, req, patch)
	if err != nil {
		return zero, err
	}
	uploaded, err := e.upload(ctx, patch, req.Files, galleryAllowed)
	if err != nil {
		return zero, err
	}

	for attempt := 1; ; attempt++ {
		item, err = e.applyUpdate(ctx, req.AdminID, req.ID, patch)
		if errors.Is(err, ErrVersionConflict) {
			metrics.AggregateUpdateConflicts.WithLabelValues(e.binding.Plural).Inc()
			if attempt < e.opts.maxUpdateAttempts {
				logger.FromContext(ctx).Debug("Retrying update after version conflict",
					"resource", e.binding.Plural, "id", req.ID, "attempt", attempt)
				continue
			}
			err = domain.NewConflictError(domain.ErrMsgUpdateConflict)
		}
		if err != nil {
			e.orphaned(ctx, uploaded, err)
			return zero, err
		}

		logger.FromContext(ctx).Info("Resource updated",
			"resource", e.binding.Plural, "id", req.ID, "admin_id", req.AdminID, "attempts", attempt)
		return item, nil
	}
}

// galleryAllowed reports whether featuredImages files may attach to the item being
// updated. The patch's featured flag wins; otherwise the stored item's flag decides.
func (e *Engine[T]) galleryAllowed(ctx context.Context, req UpdateRequest, patch Fields) (bool, error) {
	if patch.Has(fieldFeatured) {
		return patch.Truthy(fieldFeatured), nil
	}
	hasGallery := slices.ContainsFunc(req.Files, func(f assets.File) bool {
		return f.Field == assets.FieldFeaturedImages
	})
	if !e.binding.Gallery || !hasGallery {
		return false, nil
	}

	doc, err := e.store.Document(ctx, req.AdminID)
	if errors.Is(err, ErrDocumentNotFound) {
		return false, domain.NewNotFoundError(domain.ErrMsgAdminDocumentNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s document for admin %s: %w", e.binding.Plural, req.AdminID, err)
	}
	idx := indexOf(doc.Items, req.ID)
	if idx < 0 {
		return false, e.notFound()
	}
	current, err := fieldsOf(doc.Items[idx])
	if err != nil {
		return false, err
	}
	return current.Truthy(fieldFeatured), nil
}

func (e *Engine[T]) applyUpdate(ctx context.Context, adminID, id string, patch Fields) (T, error) {
	var zero T

	doc, err := e.store.Document(ctx, adminID)
	if errors.Is(err, ErrDocumentNotFound) {
		return zero, domain.NewNotFoundError(domain.ErrMsgAdminDocumentNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("failed to load %s document for admin %s: %w", e.binding.Plural, adminID, err)
	}

	idx := indexOf(doc.Items, id)
	if idx < 0 {
		return zero, e.notFound()
	}

	merged, err := fieldsOf(doc.Items[idx])
	if err != nil {
		return zero, err
	}
	merged.Merge(patch)
	if e.binding.OnUpdate != nil {
		if err := e.binding.OnUpdate(merged); err != nil {
			return zero, err
		}
	}
	if err := merged.Set(fieldUpdatedAt, e.now()); err != nil {
		return zero, err
	}

	item, err := decodeItem[T](merged)
	if err != nil {
		return zero, err
	}

	items := slices.Clone(doc.Items)
	items[idx] = item
	if err := e.store.Replace(ctx, doc, items); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return zero, err
		}
		return zero, fmt.Errorf("failed to write %s document for admin %s: %w", e.binding.Plural, adminID, err)
	}
	return item, nil
}

// Delete removes the first item with id found across all admin documents.
func (e *Engine[T]) Delete(ctx context.Context, id string) (err error) {
	defer e.observe(OpDelete, time.Now(), &err)

	docs, err := e.store.Documents(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", e.binding.Plural, err)
	}

	for _, doc := range docs {
		idx := indexOf(doc.Items, id)
		if idx < 0 {
			continue
		}
		err := e.store.Remove(ctx, doc, idx)
		if errors.Is(err, ErrItemNotFound) {
			return e.notFound()
		}
		if err != nil {
			return fmt.Errorf("failed to remove %s %s: %w", e.binding.Singular, id, err)
		}
		logger.FromContext(ctx).Info("Resource deleted",
			"resource", e.binding.Plural, "id", id, "admin_id", doc.OwnerID)
		return nil
	}
	return e.notFound()
}

// upload stores the image and gallery files and writes their URLs into fields.
// Files in other form fields are ignored.
func (e *Engine[T]) upload(ctx context.Context, fields Fields, files []assets.File, galleryAllowed bool) ([]assets.Object, error) {
	var uploaded []assets.Object
	var gallery []string
	imageDone := false

	for _, f := range files {
		switch {
		case f.Field == assets.FieldImage && !imageDone:
			imageDone = true
		case f.Field == assets.FieldFeaturedImages && e.binding.Gallery && galleryAllowed:
		default:
			continue
		}

		obj, err := e.uploader.Upload(ctx, e.binding.Plural, f)
		if err != nil {
			e.orphaned(ctx, uploaded, err)
			return nil, fmt.Errorf("failed to upload %s for %s: %w", f.Filename, e.binding.Singular, err)
		}
		uploaded = append(uploaded, obj)

		if f.Field == assets.FieldImage {
			if err := fields.Set(e.binding.imageField(), obj.URL); err != nil {
				return nil, err
			}
		} else {
			gallery = append(gallery, obj.URL)
		}
	}

	if len(gallery) > 0 {
		if err := fields.Set(fieldFeaturedImages, gallery); err != nil {
			return nil, err
		}
	}
	return uploaded, nil
}

// orphaned reports uploads left unreferenced by a failed write, deleting them when enabled.
func (e *Engine[T]) orphaned(ctx context.Context, objs []assets.Object, cause error) {
	if len(objs) == 0 {
		return
	}

	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = o.Name
	}

	metrics.AggregateOrphanedAssets.WithLabelValues(e.binding.Plural).Add(float64(len(objs)))
	log := logger.FromContext(ctx)
	log.Warn("Uploaded assets orphaned by failed write",
		"resource", e.binding.Plural, "objects", names, "error", cause)

	if !e.opts.cleanupOrphans {
		return
	}
	cleanupCtx := context.WithoutCancel(ctx)
	for _, name := range names {
		if err := e.uploader.Delete(cleanupCtx, name); err != nil {
			log.Error("Failed to delete orphaned asset", "object", name, "error", err)
			continue
		}
		log.Info("Deleted orphaned asset", "object", name)
	}
}

func (e *Engine[T]) stamp(fields Fields, id, adminID string, now time.Time) error {
	if err := fields.Set(fieldID, id); err != nil {
		return err
	}
	if e.binding.StampOwner {
		if err := fields.Set(fieldUserID, adminID); err != nil {
			return err
		}
	}
	if err := fields.Set(fieldCreatedAt, now); err != nil {
		return err
	}
	return fields.Set(fieldUpdatedAt, now)
}

func (e *Engine[T]) notFound() error {
	return domain.NewNotFoundError("%s not found", e.binding.Kind)
}

func (e *Engine[T]) now() time.Time {
	return e.opts.now().UTC().Truncate(time.Millisecond)
}

func (e *Engine[T]) newID(now time.Time) string {
	return fmt.Sprintf("%s%d_%s", e.binding.IDPrefix, now.UnixMilli(), e.opts.idSuffix())
}

func (e *Engine[T]) observe(op string, start time.Time, errp *error) {
	metrics.AggregateOperations.WithLabelValues(e.binding.Plural, op, outcomeOf(*errp)).Inc()
	metrics.AggregateOperationDuration.WithLabelValues(e.binding.Plural, op).Observe(time.Since(start).Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return metrics.OutcomeError
	}
}

func hasFile(files []assets.File, field string) bool {
	for _, f := range files {
		if f.Field == field {
			return true
		}
	}
	return false
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLength]
}
