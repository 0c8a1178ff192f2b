package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"pharmacatalog_api/internal/catalog/business"
	"pharmacatalog_api/internal/catalog/business/export"
	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/logger"
)

var (
	testLog  = logger.NewLogger(io.Discard, "[Handlers]")
	timeZero = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

type stubStore struct {
	products []models.Product
	err      error
}

func (s *stubStore) GetByEAN(_ context.Context, ean string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].EAN == ean {
			return &s.products[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *stubStore) FindEqual(context.Context, string, string) ([]models.Product, error) {
	return s.products, s.err
}

func (s *stubStore) SearchLike(context.Context, string, string) ([]models.Product, error) {
	return s.products, s.err
}

func (s *stubStore) ListPage(_ context.Context, offset, limit int) ([]models.Product, error) {
	if offset >= len(s.products) {
		return []models.Product{}, s.err
	}
	return s.products[offset:min(offset+limit, len(s.products))], s.err
}

func (s *stubStore) Count(context.Context) (int, error) { return len(s.products), s.err }

func (s *stubStore) Insert(_ context.Context, p *models.Product) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	created := *p
	created.ID = 1
	return &created, nil
}

func (s *stubStore) Update(_ context.Context, id int64, _ []models.Field) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Product{ID: id}, nil
}

func (s *stubStore) Delete(context.Context, int64) error { return s.err }

func (s *stubStore) ListAfter(_ context.Context, afterID int64, limit int) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []models.Product{}
	for _, p := range s.products {
		if p.ID > afterID && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func productRouter(store *stubStore) *mux.Router {
	h := NewProductHandler(business.NewProductService(store, 50, testLog), testLog)
	r := mux.NewRouter()
	r.HandleFunc("/api/products/ean/{ean}", h.GetByEAN).Methods(http.MethodGet)
	r.HandleFunc("/api/products/nome/{nome}", h.SearchByNome).Methods(http.MethodGet)
	r.HandleFunc("/api/products/paginado/{pagina}", h.Paginated).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id}", h.Delete).Methods(http.MethodDelete)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, rd))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

const validBody = `{"ID_PRODUTO":"1","EAN":"789","REGISTRO_MS":"1","NOME":"N","APRESENTACAO":"A","LABORATORIO":"L","PRINCIPIO_ATIVO":"P"}`

func TestProductRoutes(t *testing.T) {
	tests := []struct {
		name      string
		store     *stubStore
		method    string
		target    string
		body      string
		wantCode  int
		wantError string
	}{
		{name: "ean found", store: &stubStore{products: []models.Product{{ID: 1, EAN: "789"}}},
			method: http.MethodGet, target: "/api/products/ean/789", wantCode: http.StatusOK},
		{name: "ean unknown", store: &stubStore{},
			method: http.MethodGet, target: "/api/products/ean/000", wantCode: http.StatusNotFound, wantError: "Product not found"},
		{name: "ean store failure", store: &stubStore{err: errors.New("db down")},
			method: http.MethodGet, target: "/api/products/ean/1", wantCode: http.StatusInternalServerError, wantError: "Failed to fetch product"},
		{name: "nome no match", store: &stubStore{},
			method: http.MethodGet, target: "/api/products/nome/xyz", wantCode: http.StatusNotFound, wantError: "Products not found"},
		{name: "nome blank", store: &stubStore{},
			method: http.MethodGet, target: "/api/products/nome/%20", wantCode: http.StatusBadRequest},
		{name: "paginado bad number", store: &stubStore{},
			method: http.MethodGet, target: "/api/products/paginado/zero", wantCode: http.StatusBadRequest},
		{name: "create", store: &stubStore{},
			method: http.MethodPost, target: "/api/products", body: validBody, wantCode: http.StatusCreated},
		{name: "create missing fields", store: &stubStore{},
			method: http.MethodPost, target: "/api/products", body: `{"EAN":"1"}`, wantCode: http.StatusBadRequest},
		{name: "create duplicate", store: &stubStore{err: models.ErrDuplicate},
			method: http.MethodPost, target: "/api/products", body: validBody, wantCode: http.StatusConflict,
			wantError: "Product with this EAN already exists"},
		{name: "create store failure", store: &stubStore{err: errors.New("db down")},
			method: http.MethodPost, target: "/api/products", body: validBody, wantCode: http.StatusInternalServerError,
			wantError: "Failed to create product"},
		{name: "update", store: &stubStore{},
			method: http.MethodPut, target: "/api/products/3", body: `{"NOME":"X"}`, wantCode: http.StatusOK},
		{name: "update missing", store: &stubStore{err: models.ErrNotFound},
			method: http.MethodPut, target: "/api/products/3", body: `{"NOME":"X"}`, wantCode: http.StatusNotFound},
		{name: "update bad id", store: &stubStore{},
			method: http.MethodPut, target: "/api/products/abc", body: `{"NOME":"X"}`, wantCode: http.StatusBadRequest},
		{name: "delete", store: &stubStore{},
			method: http.MethodDelete, target: "/api/products/3", wantCode: http.StatusNoContent},
		{name: "delete store failure", store: &stubStore{err: errors.New("db down")},
			method: http.MethodDelete, target: "/api/products/3", wantCode: http.StatusInternalServerError,
			wantError: "Failed to delete product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(productRouter(tt.store), tt.method, tt.target, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantError != "" {
				if got := decodeError(t, rec); got != tt.wantError {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
			}
		})
	}
}

func TestValidationErrorShape(t *testing.T) {
	rec := serve(productRouter(&stubStore{}), http.MethodPost, "/api/products", `{"ID_PRODUTO":"1","EAN":"789","REGISTRO_MS":"1","NOME":"N","APRESENTACAO":"A","LABORATORIO":"L"}`)

	var body struct {
		Errors []models.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := models.FieldError{Type: "field", Msg: "Invalid value", Path: "PRINCIPIO_ATIVO", Location: "body"}
	if len(body.Errors) != 1 || body.Errors[0] != want {
		t.Errorf("errors = %+v, want [%+v]", body.Errors, want)
	}
}

func TestPaginatedResponse(t *testing.T) {
	store := &stubStore{}
	for i := 1; i <= 120; i++ {
		store.products = append(store.products, models.Product{ID: int64(i)})
	}

	rec := serve(productRouter(store), http.MethodGet, "/api/products/paginado/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page models.ProductPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Pagina != 2 || page.TotalPaginas != 3 || len(page.Data) != 50 || page.Data[0].ID != 51 {
		t.Errorf("pagina=%d total=%d rows=%d", page.Pagina, page.TotalPaginas, len(page.Data))
	}
}

type stubImporter struct {
	empty    bool
	emptyErr error
	ctxErr   error
}

func (s *stubImporter) Run(ctx context.Context) *models.ImportSummary {
	s.ctxErr = ctx.Err()
	sum := models.NewImportSummary("run-1", timeZero)
	sum.TotalPages, sum.PagesProcessed, sum.ProductsImported = 1, 1, 3
	sum.Complete()
	sum.Finish(timeZero)
	return sum
}

func (s *stubImporter) IsStoreEmpty(context.Context) (bool, error) { return s.empty, s.emptyErr }

func TestImportResponse(t *testing.T) {
	tests := []struct {
		name     string
		imp      *stubImporter
		wasEmpty bool
	}{
		{name: "empty table", imp: &stubImporter{empty: true}, wasEmpty: true},
		{name: "check failure reads as not empty", imp: &stubImporter{empty: true, emptyErr: errors.New("timeout")}, wasEmpty: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(http.HandlerFunc(NewImportHandler(tt.imp, testLog).Import), http.MethodGet, "/api/import", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var body importResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Message != "Import process completed" || body.WasEmpty != tt.wasEmpty {
				t.Errorf("unexpected body %+v", body)
			}
			if body.Summary == nil || body.Summary.Status != models.ImportStatusCompleted || body.Summary.ProductsImported != 3 {
				t.Errorf("unexpected summary %+v", body.Summary)
			}
		})
	}
}

func TestImportSurvivesClientDisconnect(t *testing.T) {
	imp := &stubImporter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/import", nil).WithContext(ctx)
	NewImportHandler(imp, testLog).Import(httptest.NewRecorder(), req)

	if imp.ctxErr != nil {
		t.Errorf("import saw cancelled context: %v", imp.ctxErr)
	}
}

type panickingImporter struct{ stubImporter }

func (panickingImporter) Run(context.Context) *models.ImportSummary { panic("store exploded") }

func TestImportFailureBody(t *testing.T) {
	rec := serve(http.HandlerFunc(NewImportHandler(&panickingImporter{}, testLog).Import), http.MethodGet, "/api/import", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body errorResponse
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "Import process failed" || body.Details != "store exploded" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestExportHeadersAndFailure(t *testing.T) {
	ok := &stubStore{products: []models.Product{{ID: 1, EAN: "789"}}}
	rec := serve(http.HandlerFunc(NewExportHandler(export.NewExporter(ok, 1000, testLog), testLog).Export),
		http.MethodGet, "/api/products/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "produtos.zip") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	bad := &stubStore{err: errors.New("db down")}
	rec = serve(http.HandlerFunc(NewExportHandler(export.NewExporter(bad, 1000, testLog), testLog).Export),
		http.MethodGet, "/api/products/export", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeError(t, rec); got != "Failed to export products" {
		t.Errorf("error = %q", got)
	}

	rec = serve(http.HandlerFunc(NewExportHandler(export.NewExporter(ok, 1000, testLog), testLog).Export),
		http.MethodGet, "/api/products/export?charset=ebcdic", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported charset status = %d", rec.Code)
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec := serve(http.HandlerFunc(NewSystemHandler(stubPinger{}, "", testLog).Health), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("healthy: %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(http.HandlerFunc(NewSystemHandler(stubPinger{err: errors.New("down")}, "", testLog).Health), http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d", rec.Code)
	}
}
