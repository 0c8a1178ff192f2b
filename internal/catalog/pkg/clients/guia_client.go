package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"pharmacatalog_api/internal/catalog/business/converters"
	"pharmacatalog_api/internal/catalog/models"
)

// ErrRetriesExhausted is returned by FetchPage once every attempt for a
// page has failed. The last cause is wrapped alongside it.
var ErrRetriesExhausted = errors.New("upstream retries exhausted")

type Credentials struct {
	CnpjSH  string
	CnpjCPF string
	Email   string
	Senha   string
}

// RetryPolicy bounds FetchPage: one initial attempt plus Retries more,
// Delay apart.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

type GuiaClient struct {
	*BaseClient
	creds Credentials
	retry RetryPolicy
	now   func() time.Time
}

func NewGuiaClient(apiURL string, creds Credentials, retry RetryPolicy, timeout time.Duration, rps float64, writer io.Writer) *GuiaClient {
	return &GuiaClient{
		BaseClient: NewBaseClient(apiURL, writer, "[GuiaClient]", timeout, rps),
		creds:      creds,
		retry:      retry,
		now:        time.Now,
	}
}

// FetchPage downloads one page of the catalog and normalizes its items.
// A page without items is returned as such with a nil error.
func (c *GuiaClient) FetchPage(ctx context.Context, page int) (*models.GuiaPage, error) {
	form := url.Values{}
	form.Set("cnpj_sh", c.creds.CnpjSH)
	form.Set("cnpj_cpf", c.creds.CnpjCPF)
	form.Set("email", c.creds.Email)
	form.Set("senha", c.creds.Senha)
	form.Set("pagina", strconv.Itoa(page))

	var lastErr error
	for attempt := 0; attempt <= c.retry.Retries; attempt++ {
		if attempt > 0 {
			c.log.Warn("Retrying page %d (%d/%d) after error: %v", page, attempt, c.retry.Retries, lastErr)
			if err := sleepCtx(ctx, c.retry.Delay); err != nil {
				return nil, fmt.Errorf("page %d: %w", page, err)
			}
		}

		c.log.Log("Fetching page %d", page)
		body, err := c.postForm(ctx, form)
		if err == nil {
			var result *models.GuiaPage
			result, err = c.decodePage(body)
			if err == nil {
				return result, nil
			}
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, fmt.Errorf("page %d: %w", page, ctx.Err())
		}
	}

	c.log.Error("Giving up on page %d after %d attempts: %v", page, c.retry.Retries+1, lastErr)
	return nil, fmt.Errorf("page %d: %w: %w", page, ErrRetriesExhausted, lastErr)
}

func (c *GuiaClient) decodePage(body []byte) (*models.GuiaPage, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("failed to decode response: invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, errors.New("failed to decode response: not an object")
	}

	page := &models.GuiaPage{
		Pagina:          int(root.Get("pagina").Int()),
		TotalPaginas:    int(root.Get("total_paginas").Int()),
		TotalItens:      int(root.Get("total_itens").Int()),
		TotalData:       int(root.Get("total_data").Int()),
		DataAtualizacao: root.Get("data_atualizacao").String(),
	}

	data := root.Get("data")
	if !data.IsArray() {
		page.Malformed = true
		return page, nil
	}

	stamp := c.now().UTC()
	items := data.Array()
	page.Data = make([]models.Product, 0, len(items))
	for _, item := range items {
		page.Data = append(page.Data, normalizeProduct(item, stamp))
	}
	return page, nil
}

func normalizeProduct(item gjson.Result, stamp time.Time) models.Product {
	p := models.Product{CreatedAt: stamp, UpdatedAt: stamp}
	for _, f := range p.Fields() {
		v := item.Get(f.JSON)
		switch ptr := f.Ptr.(type) {
		case *string:
			*ptr = v.String()
		case **time.Time:
			*ptr = converters.ParseDate(v.String())
		case *decimal.Decimal:
			*ptr = priceValue(v)
		}
	}
	return p
}

// priceValue accepts both JSON numbers and pt-BR formatted strings.
func priceValue(v gjson.Result) decimal.Decimal {
	if v.Type == gjson.Number {
		d, err := decimal.NewFromString(v.Raw)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return converters.ParseLocaleDecimal(v.String())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
