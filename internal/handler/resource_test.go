package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
	"github.com/osse101/AdventureAdmin_Go/internal/assets"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/middleware"
	"github.com/osse101/AdventureAdmin_Go/internal/resource"
)

type stubUploader struct {
	uploads []assets.File
}

func (u *stubUploader) Upload(_ context.Context, prefix string, f assets.File) (assets.Object, error) {
	u.uploads = append(u.uploads, f)
	name := prefix + "/" + f.Filename
	return assets.Object{Name: name, URL: "https://cdn.example.com/" + name}, nil
}

func (u *stubUploader) Delete(context.Context, string) error { return nil }
func (u *stubUploader) Backend() string                      { return "stub" }

// mountResource wires one resource handler the way the server does.
func mountResource[T aggregate.Item](r chi.Router, h *ResourceHandler[T]) {
	r.Route("/api/"+h.Plural(), func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/list", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func newResourceRouter(t *testing.T) (http.Handler, *stubUploader) {
	t.Helper()
	uploader := &stubUploader{}
	engines, err := resource.NewEngines(resource.NewMemoryStores(), uploader)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if uid := req.Header.Get("X-Test-User"); uid != "" {
				req = req.WithContext(middleware.WithClaims(req.Context(), domain.Claims{UID: uid}))
			}
			next.ServeHTTP(w, req)
		})
	})
	mountResource(r, NewResourceHandler[domain.Quest](engines.Quests, engines.Quests.Binding()))
	mountResource(r, NewResourceHandler[domain.Category](engines.Categories, engines.Categories.Binding()))
	mountResource(r, NewResourceHandler[domain.Adventure](engines.Adventures, engines.Adventures.Binding()))
	return r, uploader
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type formFile struct {
	field, name, contentType, body string
}

func multipartRequest(t *testing.T, method, path, payloadField, payload string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField(payloadField, payload))
	for _, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		hdr.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestResourceHandler_QuestLifecycle(t *testing.T) {
	h, _ := newResourceRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/quests", map[string]any{
		"userId": "admin-1",
		"title":  "Ring the bell",
		"step":   map[string]any{"type": "location", "latitude": 51.5, "longitude": -0.1, "radius": 20},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.Quest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.ID, "quest_"))
	require.NotNil(t, created.UserID)
	assert.Equal(t, "admin-1", *created.UserID)

	t.Run("list and list alias agree", func(t *testing.T) {
		for _, path := range []string{"/api/quests", "/api/quests/list"} {
			w := doJSON(t, h, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var items []domain.Quest
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
			require.Len(t, items, 1, path)
			assert.Equal(t, created.ID, items[0].ID)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/quests/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ring the bell")
	})

	t.Run("update wraps item under singular key", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPatch, "/api/quests/"+created.ID,
			map[string]any{"userId": "admin-1", "title": "Ring it twice"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Message string       `json:"message"`
			Quest   domain.Quest `json:"quest"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Quest updated successfully", resp.Message)
		assert.Equal(t, "Ring it twice", resp.Quest.Title)
	})

	t.Run("update falls back to the token user", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPatch, "/api/quests/"+created.ID,
			map[string]any{"title": "From token"}, "X-Test-User", "admin-1")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("update in another admin's document is not found", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPatch, "/api/quests/"+created.ID,
			map[string]any{"userId": "admin-2", "title": "Hijack"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, h, http.MethodDelete, "/api/quests/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Quest deleted successfully"}`, w.Body.String())

		w = doJSON(t, h, http.MethodGet, "/api/quests/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Quest not found"}`, w.Body.String())
	})
}

func TestResourceHandler_Errors(t *testing.T) {
	h, _ := newResourceRouter(t)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		wantStatus  int
		wantError   string
	}{
		{"create without admin", http.MethodPost, "/api/adventures", "application/json", `{"title":"x"}`, http.StatusBadRequest, domain.ErrMsgAdminIDRequired},
		{"malformed json", http.MethodPost, "/api/adventures", "application/json", `{"title":`, http.StatusBadRequest, domain.ErrMsgInvalidPayload},
		{"unsupported content type", http.MethodPost, "/api/adventures", "text/plain", `title=x`, http.StatusUnsupportedMediaType, ErrMsgUnsupportedMediaType},
		{"category needs image", http.MethodPost, "/api/categories", "application/json", `{"userId":"admin-1","name":"Parks"}`, http.StatusBadRequest, domain.ErrMsgImageRequired},
		{"update without document", http.MethodPatch, "/api/adventures/adventure_1", "application/json", `{"userId":"admin-9"}`, http.StatusNotFound, domain.ErrMsgAdminDocumentNotFound},
		{"delete unknown", http.MethodDelete, "/api/adventures/adventure_1", "", "", http.StatusNotFound, "Adventure not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}

func TestResourceHandler_MultipartCreate(t *testing.T) {
	h, uploader := newResourceRouter(t)

	req := multipartRequest(t, http.MethodPost, "/api/categories", "category",
		`{"userId":"admin-1","name":"Parks","imageUrl":"https://ignored.example.com/x.png"}`,
		formFile{field: "image", name: "parks.png", contentType: "image/png", body: "png-bytes"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Parks", created.Name)
	assert.Equal(t, "admin-1", created.UserID)
	assert.True(t, strings.HasPrefix(created.ImageURL, "https://cdn.example.com/"))

	require.Len(t, uploader.uploads, 1)
	assert.Equal(t, "parks.png", uploader.uploads[0].Filename)
	assert.Equal(t, "image/png", uploader.uploads[0].ContentType)
}

func TestResourceHandler_MultipartGallery(t *testing.T) {
	h, uploader := newResourceRouter(t)

	req := multipartRequest(t, http.MethodPost, "/api/adventures", "adventure",
		`{"userId":"admin-1","title":"Coast walk","featured":true}`,
		formFile{field: "image", name: "cover.jpg", contentType: "image/jpeg", body: "a"},
		formFile{field: "featuredImages", name: "one.jpg", contentType: "image/jpeg", body: "b"},
		formFile{field: "featuredImages", name: "two.jpg", contentType: "image/jpeg", body: "c"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.Adventure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.FeaturedImages, 2)
	assert.Len(t, uploader.uploads, 3)
}

func TestResourceHandler_ListFilters(t *testing.T) {
	h, _ := newResourceRouter(t)

	for _, c := range []struct{ admin, title string }{
		{"admin-1", "Harbour lights"},
		{"admin-2", "Forest trail"},
		{"admin-2", "Harbour loop"},
	} {
		w := doJSON(t, h, http.MethodPost, "/api/adventures", map[string]any{"userId": c.admin, "title": c.title})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, h, http.MethodGet, "/api/adventures?userId=admin-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var owned []domain.Adventure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &owned))
	assert.Len(t, owned, 2)

	w = doJSON(t, h, http.MethodGet, "/api/adventures/list?q=harbour", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var matched []domain.Adventure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matched))
	require.NotEmpty(t, matched)
	for _, a := range matched {
		assert.Contains(t, strings.ToLower(a.Title), "harbour")
	}
}

func TestResourceHandler_BodyTooLarge(t *testing.T) {
	h, _ := newResourceRouter(t)
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 16)
		h.ServeHTTP(w, r)
	})

	w := doJSON(t, limited, http.MethodPost, "/api/adventures",
		map[string]any{"userId": "admin-1", "title": strings.Repeat("x", 64)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
