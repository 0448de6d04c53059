package handler

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
	"github.com/osse101/AdventureAdmin_Go/internal/assets"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
	"github.com/osse101/AdventureAdmin_Go/internal/middleware"
)

// Query and path parameter names for resource routes
const (
	ParamID      = "id"
	QueryUserID  = "userId"
	QuerySearch  = "q"
	payloadOwner = "userId"
)

// DefaultMultipartMemory is the part of a multipart body kept in memory; the rest spills to disk.
const DefaultMultipartMemory = 8 << 20

// ResourceService is the engine surface a resource handler needs.
type ResourceService[T aggregate.Item] interface {
	List(ctx context.Context, opts aggregate.ListOptions) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, req aggregate.CreateRequest) (T, error)
	Update(ctx context.Context, req aggregate.UpdateRequest) (T, error)
	Delete(ctx context.Context, id string) error
}

// ResourceHandler serves the CRUD routes of one resource type.
type ResourceHandler[T aggregate.Item] struct {
	svc      ResourceService[T]
	kind     string
	singular string
	plural   string
}

// NewResourceHandler creates the handler for the resource type described by binding.
func NewResourceHandler[T aggregate.Item](svc ResourceService[T], binding aggregate.Binding[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		svc:      svc,
		kind:     binding.Kind,
		singular: binding.Singular,
		plural:   binding.Plural,
	}
}

// Plural returns the route segment of the resource.
func (h *ResourceHandler[T]) Plural() string {
	return h.plural
}

// HandleList returns every item across all admins
// @Summary List resource items
// @Description Lists the items of a resource type (achievements, adventures, categories, events, quests, store) across every admin. Also served at /api/{resource}/list.
// @Tags resources
// @Produce json
// @Param resource path string true "Resource route"
// @Param userId query string false "Only items owned by this admin"
// @Param q query string false "Fuzzy title search"
// @Success 200 {array} object
// @Failure 500 {object} ErrorResponse
// @Router /api/{resource} [get]
func (h *ResourceHandler[T]) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), aggregate.ListOptions{
		OwnerID: GetOptionalQueryParam(r, QueryUserID, ""),
		Query:   GetOptionalQueryParam(r, QuerySearch, ""),
	})
	if err != nil {
		respondServiceError(w, r, "List "+h.plural, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// HandleGet returns one item by id
// @Summary Get a resource item
// @Tags resources
// @Produce json
// @Param resource path string true "Resource route"
// @Param id path string true "Item id"
// @Success 200 {object} object
// @Failure 404 {object} ErrorResponse
// @Router /api/{resource}/{id} [get]
func (h *ResourceHandler[T]) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Get(r.Context(), chi.URLParam(r, ParamID))
	if err != nil {
		respondServiceError(w, r, "Get "+h.singular, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// HandleCreate stores a new item in the admin's document
// @Summary Create a resource item
// @Description Accepts multipart/form-data with the item JSON in a field named after the singular resource (quest, adventure, category, achievement, event, item) plus optional image and featuredImages files, or a plain JSON body.
// @Tags resources
// @Accept multipart/form-data,json
// @Produce json
// @Param resource path string true "Resource route"
// @Param image formData file false "Image"
// @Success 201 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/{resource} [post]
func (h *ResourceHandler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	payload, files, cleanup, ok := h.parse(w, r)
	if !ok {
		return
	}
	defer cleanup()

	item, err := h.svc.Create(r.Context(), aggregate.CreateRequest{
		AdminID: adminID(r, payload),
		Payload: payload,
		Files:   files,
	})
	if err != nil {
		respondServiceError(w, r, "Create "+h.singular, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// HandleUpdate merges the payload into an existing item
// @Summary Update a resource item
// @Description Shallow-merges the payload into the item in the admin's document. The admin is the payload userId, or the bearer token's user.
// @Tags resources
// @Accept multipart/form-data,json
// @Produce json
// @Param resource path string true "Resource route"
// @Param id path string true "Item id"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/{resource}/{id} [patch]
func (h *ResourceHandler[T]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	payload, files, cleanup, ok := h.parse(w, r)
	if !ok {
		return
	}
	defer cleanup()

	item, err := h.svc.Update(r.Context(), aggregate.UpdateRequest{
		ID:      chi.URLParam(r, ParamID),
		AdminID: adminID(r, payload),
		Payload: payload,
		Files:   files,
	})
	if err != nil {
		respondServiceError(w, r, "Update "+h.singular, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":  fmt.Sprintf(MsgUpdatedFormat, h.kind),
		h.singular: item,
	})
}

// HandleDelete removes an item from whichever admin document holds it
// @Summary Delete a resource item
// @Tags resources
// @Produce json
// @Param resource path string true "Resource route"
// @Param id path string true "Item id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/{resource}/{id} [delete]
func (h *ResourceHandler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, ParamID)); err != nil {
		respondServiceError(w, r, "Delete "+h.singular, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: fmt.Sprintf(MsgDeletedFormat, h.kind)})
}

// parse reads the item payload and uploaded files from a multipart form or a JSON body.
// When ok is false the response has been written.
func (h *ResourceHandler[T]) parse(w http.ResponseWriter, r *http.Request) (payload aggregate.Fields, files []assets.File, cleanup func(), ok bool) {
	cleanup = func() {}
	log := logger.FromContext(r.Context())

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil && r.Header.Get("Content-Type") != "" {
		respondError(w, http.StatusUnsupportedMediaType, ErrMsgUnsupportedMediaType)
		return nil, nil, cleanup, false
	}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(DefaultMultipartMemory); err != nil {
			log.Warn("Failed to parse multipart form", "error", err)
			if isTooLarge(err) {
				respondError(w, http.StatusRequestEntityTooLarge, ErrMsgRequestTooLarge)
			} else {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidMultipart)
			}
			return nil, nil, cleanup, false
		}
		form := r.MultipartForm
		cleanup = func() { _ = form.RemoveAll() }

		payload, err = aggregate.ParseFields([]byte(r.FormValue(h.singular)))
		if err != nil {
			respondServiceError(w, r, "Parse "+h.singular, err)
			return nil, nil, cleanup, false
		}

		files, closeFiles, err := openFiles(form, assets.FieldImage, assets.FieldFeaturedImages)
		if err != nil {
			log.Warn("Failed to open uploaded file", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidMultipart)
			return nil, nil, cleanup, false
		}
		cleanup = func() {
			closeFiles()
			_ = form.RemoveAll()
		}
		return payload, files, cleanup, true

	case "application/json", "":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			if isTooLarge(err) {
				respondError(w, http.StatusRequestEntityTooLarge, ErrMsgRequestTooLarge)
			} else {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			}
			return nil, nil, cleanup, false
		}
		payload, err = aggregate.ParseFields(body)
		if err != nil {
			respondServiceError(w, r, "Parse "+h.singular, err)
			return nil, nil, cleanup, false
		}
		return payload, nil, cleanup, true

	default:
		respondError(w, http.StatusUnsupportedMediaType, ErrMsgUnsupportedMediaType)
		return nil, nil, cleanup, false
	}
}

// openFiles opens the uploads of the named fields in form order.
func openFiles(form *multipart.Form, fields ...string) ([]assets.File, func(), error) {
	var (
		files   []assets.File
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				closeAll()
				return nil, func() {}, fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			closers = append(closers, f)
			files = append(files, assets.File{
				Field:       field,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        f,
			})
		}
	}
	return files, closeAll, nil
}

// adminID picks the aggregate owner: the payload userId, else the bearer token's user.
func adminID(r *http.Request, payload aggregate.Fields) string {
	if id := strings.TrimSpace(payload.String(payloadOwner)); id != "" {
		return id
	}
	return middleware.GetUserID(r.Context())
}

// Compile-time check that the engine satisfies the handler's service interface.
var _ ResourceService[domain.Quest] = (*aggregate.Engine[domain.Quest])(nil)
