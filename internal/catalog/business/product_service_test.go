package business

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/logger"
)

type memStore struct {
	products []models.Product
	nextID   int64

	lastColumn string
	lastValue  string
	lastOffset int
	lastLimit  int
	lastID     int64
	changes    []models.Field
	err        error
}

func (m *memStore) GetByEAN(_ context.Context, ean string) (*models.Product, error) {
	for i := range m.products {
		if m.products[i].EAN == ean {
			return &m.products[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) FindEqual(_ context.Context, column, value string) ([]models.Product, error) {
	m.lastColumn, m.lastValue = column, value
	return m.products, m.err
}

func (m *memStore) SearchLike(_ context.Context, column, term string) ([]models.Product, error) {
	m.lastColumn, m.lastValue = column, term
	return m.products, m.err
}

func (m *memStore) ListPage(_ context.Context, offset, limit int) ([]models.Product, error) {
	m.lastOffset, m.lastLimit = offset, limit
	if offset >= len(m.products) {
		return []models.Product{}, nil
	}
	end := min(offset+limit, len(m.products))
	return m.products[offset:end], nil
}

func (m *memStore) Count(context.Context) (int, error) {
	return len(m.products), m.err
}

func (m *memStore) Insert(_ context.Context, p *models.Product) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	created := *p
	created.ID = m.nextID
	m.products = append(m.products, created)
	return &created, nil
}

func (m *memStore) Update(_ context.Context, id int64, changes []models.Field) (*models.Product, error) {
	m.lastID, m.changes = id, changes
	if m.err != nil {
		return nil, m.err
	}
	return &models.Product{ID: id}, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.lastID = id
	return m.err
}

func newTestProductService(store *memStore) *ProductService {
	return NewProductService(store, 50, logger.NewLogger(io.Discard, "[ProductService]"))
}

func seeded(n int) *memStore {
	m := &memStore{}
	for i := 1; i <= n; i++ {
		m.products = append(m.products, models.Product{ID: int64(i)})
	}
	return m
}

func validationPaths(t *testing.T, err error) []string {
	t.Helper()
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	paths := make([]string, len(verr.Errors))
	for i, fe := range verr.Errors {
		paths[i] = fe.Path
	}
	return paths
}

func TestPageMath(t *testing.T) {
	svc := newTestProductService(seeded(120))

	page, err := svc.Page(context.Background(), "2")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Pagina != 2 || page.TotalPaginas != 3 {
		t.Errorf("pagina=%d total=%d, want 2 and 3", page.Pagina, page.TotalPaginas)
	}
	if len(page.Data) != 50 || page.Data[0].ID != 51 || page.Data[49].ID != 100 {
		t.Errorf("page 2 should hold rows 51..100, got %d rows", len(page.Data))
	}
}

func TestPageEdges(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		raw       string
		wantTotal int
		wantRows  int
	}{
		{name: "empty table", rows: 0, raw: "1", wantTotal: 0, wantRows: 0},
		{name: "exact multiple", rows: 100, raw: "2", wantTotal: 2, wantRows: 50},
		{name: "last partial page", rows: 120, raw: "3", wantTotal: 3, wantRows: 20},
		{name: "past the end", rows: 120, raw: "9", wantTotal: 3, wantRows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := newTestProductService(seeded(tt.rows)).Page(context.Background(), tt.raw)
			if err != nil {
				t.Fatalf("Page: %v", err)
			}
			if page.TotalPaginas != tt.wantTotal || len(page.Data) != tt.wantRows {
				t.Errorf("total=%d rows=%d, want %d and %d", page.TotalPaginas, len(page.Data), tt.wantTotal, tt.wantRows)
			}
		})
	}
}

func TestPageRejectsBadNumber(t *testing.T) {
	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, err := newTestProductService(seeded(1)).Page(context.Background(), raw)
		if paths := validationPaths(t, err); len(paths) != 1 || paths[0] != "pagina" {
			t.Errorf("Page(%q) paths = %v", raw, paths)
		}
	}
}

func TestListsReturnNotFoundWhenEmpty(t *testing.T) {
	svc := newTestProductService(&memStore{})

	calls := map[string]func(context.Context, string) ([]models.Product, error){
		"registro":     svc.ListByRegistroMS,
		"status":       svc.ListByStatus,
		"nome":         svc.SearchByNome,
		"apresentacao": svc.SearchByApresentacao,
		"laboratorio":  svc.SearchByLaboratorio,
	}
	for name, call := range calls {
		if _, err := call(context.Background(), "x"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("%s: err = %v, want ErrNotFound", name, err)
		}
	}
}

func TestSearchTrimsAndPicksColumn(t *testing.T) {
	store := seeded(2)
	svc := newTestProductService(store)

	got, err := svc.SearchByLaboratorio(context.Background(), "  EMS ")
	if err != nil || len(got) != 2 {
		t.Fatalf("SearchByLaboratorio = %d, %v", len(got), err)
	}
	if store.lastColumn != "laboratorio" || store.lastValue != "EMS" {
		t.Errorf("store got %s=%q", store.lastColumn, store.lastValue)
	}

	if _, err := svc.ListByRegistroMS(context.Background(), "   "); err == nil {
		t.Error("blank registro should fail validation")
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := newTestProductService(&memStore{})

	_, err := svc.Create(context.Background(), []byte(`{"EAN":"789","NOME":"  "}`))
	paths := validationPaths(t, err)
	want := []string{"ID_PRODUTO", "REGISTRO_MS", "NOME", "APRESENTACAO", "LABORATORIO", "PRINCIPIO_ATIVO"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestCreate(t *testing.T) {
	store := &memStore{}
	svc := newTestProductService(store)

	body := `{
		"ID_PRODUTO": "1", "EAN": " 789 ", "REGISTRO_MS": "100", "NOME": "DIPIRONA",
		"APRESENTACAO": "500MG", "LABORATORIO": "EMS", "PRINCIPIO_ATIVO": "DIPIRONA",
		"DATA_VIGENCIA": "15/01/2024", "PRECO_FABRICA_20": 12.5, "PRECO_MAXIMO_20": "15,90",
		"id": 99
	}`
	created, err := svc.Create(context.Background(), []byte(body))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 || created.EAN != "789" {
		t.Errorf("unexpected product %+v", created)
	}
	if created.DataVigencia == nil || created.DataVigencia.Day() != 15 {
		t.Errorf("DataVigencia = %v", created.DataVigencia)
	}
	if !created.PrecoMaximo20.Equal(decimal.RequireFromString("15.9")) {
		t.Errorf("PrecoMaximo20 = %s", created.PrecoMaximo20)
	}
}

func TestCreateRejectsUnknownAndBadValues(t *testing.T) {
	svc := newTestProductService(&memStore{})

	body := `{
		"ID_PRODUTO": "1", "EAN": "789", "REGISTRO_MS": "100", "NOME": "N",
		"APRESENTACAO": "A", "LABORATORIO": "L", "PRINCIPIO_ATIVO": "P",
		"COLOR": "red", "PRECO_FABRICA_20": "cheap", "DATA_VIGENCIA": "yesterday"
	}`
	paths := validationPaths(t, mustErr(svc.Create(context.Background(), []byte(body))))
	want := map[string]bool{"COLOR": true, "PRECO_FABRICA_20": true, "DATA_VIGENCIA": true}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range paths {
		if !want[p] {
			t.Errorf("unexpected path %s", p)
		}
	}
}

func TestCreateDuplicatePassesThrough(t *testing.T) {
	svc := newTestProductService(&memStore{err: models.ErrDuplicate})

	body := `{"ID_PRODUTO":"1","EAN":"7","REGISTRO_MS":"1","NOME":"N","APRESENTACAO":"A","LABORATORIO":"L","PRINCIPIO_ATIVO":"P"}`
	if _, err := svc.Create(context.Background(), []byte(body)); !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestUpdateSendsOnlyPresentFields(t *testing.T) {
	store := &memStore{}
	svc := newTestProductService(store)

	_, err := svc.Update(context.Background(), "42", []byte(`{"NOME":"NOVO","PRECO_MAXIMO_0":"9,99","updated_at":"x"}`))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if store.lastID != 42 || len(store.changes) != 2 {
		t.Fatalf("id=%d changes=%d", store.lastID, len(store.changes))
	}
	if store.changes[0].Column != "nome" || store.changes[0].Value() != "NOVO" {
		t.Errorf("first change = %s=%v", store.changes[0].Column, store.changes[0].Value())
	}
	if d := store.changes[1].Value().(decimal.Decimal); !d.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("price = %s", d)
	}
}

func TestUpdateValidation(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
		path string
	}{
		{name: "non numeric id", id: "abc", body: `{"NOME":"x"}`, path: "id"},
		{name: "zero id", id: "0", body: `{"NOME":"x"}`, path: "id"},
		{name: "not an object", id: "1", body: `[1]`, path: ""},
		{name: "empty body", id: "1", body: `{}`, path: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestProductService(&memStore{}).Update(context.Background(), tt.id, []byte(tt.body))
			if paths := validationPaths(t, err); paths[0] != tt.path {
				t.Errorf("paths = %v, want %q", paths, tt.path)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	store := &memStore{}
	if err := newTestProductService(store).Delete(context.Background(), " 5 "); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.lastID != 5 {
		t.Errorf("deleted id %d, want 5", store.lastID)
	}
}

func mustErr(_ *models.Product, err error) error {
	return err
}
