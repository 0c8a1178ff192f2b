package business

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/logger"
)

const (
	locationParams = "params"
	locationBody   = "body"
	invalidValue   = "Invalid value"
)

// ProductStore is the catalog storage the API reads and writes.
type ProductStore interface {
	GetByEAN(ctx context.Context, ean string) (*models.Product, error)
	FindEqual(ctx context.Context, column, value string) ([]models.Product, error)
	SearchLike(ctx context.Context, column, term string) ([]models.Product, error)
	ListPage(ctx context.Context, offset, limit int) ([]models.Product, error)
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id int64, changes []models.Field) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ProductService struct {
	store    ProductStore
	pageSize int
	log      logger.Logger
}

func NewProductService(store ProductStore, pageSize int, log logger.Logger) *ProductService {
	return &ProductService{store: store, pageSize: pageSize, log: log}
}

func (s *ProductService) GetByEAN(ctx context.Context, ean string) (*models.Product, error) {
	ean, err := requireParam("ean", ean)
	if err != nil {
		return nil, err
	}
	return s.store.GetByEAN(ctx, ean)
}

func (s *ProductService) ListByRegistroMS(ctx context.Context, registroMS string) ([]models.Product, error) {
	return s.findEqual(ctx, "registroMS", "registro_ms", registroMS)
}

func (s *ProductService) ListByStatus(ctx context.Context, status string) ([]models.Product, error) {
	return s.findEqual(ctx, "id_status", "id_status", status)
}

func (s *ProductService) SearchByNome(ctx context.Context, nome string) ([]models.Product, error) {
	return s.searchLike(ctx, "nome", "nome", nome)
}

func (s *ProductService) SearchByApresentacao(ctx context.Context, apresentacao string) ([]models.Product, error) {
	return s.searchLike(ctx, "apresentacao", "apresentacao", apresentacao)
}

func (s *ProductService) SearchByLaboratorio(ctx context.Context, laboratorio string) ([]models.Product, error) {
	return s.searchLike(ctx, "laboratorio", "laboratorio", laboratorio)
}

func (s *ProductService) findEqual(ctx context.Context, param, column, value string) ([]models.Product, error) {
	value, err := requireParam(param, value)
	if err != nil {
		return nil, err
	}
	return nonEmpty(s.store.FindEqual(ctx, column, value))
}

func (s *ProductService) searchLike(ctx context.Context, param, column, term string) ([]models.Product, error) {
	term, err := requireParam(param, term)
	if err != nil {
		return nil, err
	}
	return nonEmpty(s.store.SearchLike(ctx, column, term))
}

// Page returns the 1-based page of the catalog ordered by id. Pages past
// the end come back with no data.
func (s *ProductService) Page(ctx context.Context, rawPage string) (*models.ProductPage, error) {
	pagina, err := strconv.Atoi(strings.TrimSpace(rawPage))
	if err != nil || pagina < 1 {
		verr := &models.ValidationError{}
		verr.Add(locationParams, "pagina", invalidValue)
		return nil, verr
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.store.ListPage(ctx, (pagina-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, err
	}
	return &models.ProductPage{
		Pagina:       pagina,
		TotalPaginas: (count + s.pageSize - 1) / s.pageSize,
		Data:         data,
	}, nil
}

// Create validates a JSON product body and inserts it.
func (s *ProductService) Create(ctx context.Context, body []byte) (*models.Product, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var p models.Product
	verr := &models.ValidationError{}
	applyFields(&p, raw, verr)
	for _, name := range models.RequiredFields {
		f, _ := p.FieldByJSON(name)
		ptr := f.Ptr.(*string)
		*ptr = strings.TrimSpace(*ptr)
		if *ptr == "" {
			verr.Add(locationBody, name, invalidValue)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, &p)
	if err != nil {
		return nil, err
	}
	s.log.Log("Created product %s with id %d", created.EAN, created.ID)
	return created, nil
}

// Update changes only the attributes present in body.
func (s *ProductService) Update(ctx context.Context, rawID string, body []byte) (*models.Product, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	raw, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var patch models.Product
	verr := &models.ValidationError{}
	changes := applyFields(&patch, raw, verr)
	if len(changes) == 0 {
		verr.Add(locationBody, "", "No fields to update")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	s.log.Log("Updated product %d (%d fields)", id, len(changes))
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Log("Deleted product %d", id)
	return nil
}

func requireParam(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		verr := &models.ValidationError{}
		verr.Add(locationParams, name, invalidValue)
		return "", verr
	}
	return value, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		verr := &models.ValidationError{}
		verr.Add(locationParams, "id", invalidValue)
		return 0, verr
	}
	return id, nil
}

func nonEmpty(products []models.Product, err error) ([]models.Product, error) {
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, models.ErrNotFound
	}
	return products, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		verr := &models.ValidationError{}
		verr.Add(locationBody, "", "Body must be a JSON object")
		return nil, verr
	}
	return raw, nil
}
