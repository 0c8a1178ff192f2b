package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are served as JSON numbers, the way the upstream catalog
	// consumers expect them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is one row of the catalog table. JSON names follow the upstream
// catalog so that records round-trip between the import and the API.
type Product struct {
	ID                int64  `json:"id"`
	IDProduto         string `json:"ID_PRODUTO"`
	EAN               string `json:"EAN"`
	RegistroMS        string `json:"REGISTRO_MS"`
	Nome              string `json:"NOME"`
	Apresentacao      string `json:"APRESENTACAO"`
	Laboratorio       string `json:"LABORATORIO"`
	PrincipioAtivo    string `json:"PRINCIPIO_ATIVO"`
	ClasseTerapeutica string `json:"CLASSE_TERAPEUTICA"`
	TipoProduto       string `json:"TIPO_PRODUTO"`
	Tarja             string `json:"TARJA"`
	Lista             string `json:"LISTA"`
	NCM               string `json:"NCM"`
	IDStatus          string `json:"ID_STATUS"`

	DataVigencia *time.Time `json:"DATA_VIGENCIA"`

	Prices

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field is a persisted product attribute addressed through a pointer into
// a concrete Product, so the same list drives scanning, inserts and
// partial updates.
type Field struct {
	JSON   string
	Column string
	Ptr    any
}

// Value dereferences the field for use as a query argument.
func (f Field) Value() any {
	switch v := f.Ptr.(type) {
	case *string:
		return *v
	case **time.Time:
		return *v
	case *decimal.Decimal:
		return *v
	}
	return nil
}

// Fields returns the persisted attributes of p in table order, excluding
// the surrogate id and the audit timestamps.
func (p *Product) Fields() []Field {
	fields := []Field{
		{"ID_PRODUTO", "id_produto", &p.IDProduto},
		{"EAN", "ean", &p.EAN},
		{"REGISTRO_MS", "registro_ms", &p.RegistroMS},
		{"NOME", "nome", &p.Nome},
		{"APRESENTACAO", "apresentacao", &p.Apresentacao},
		{"LABORATORIO", "laboratorio", &p.Laboratorio},
		{"PRINCIPIO_ATIVO", "principio_ativo", &p.PrincipioAtivo},
		{"CLASSE_TERAPEUTICA", "classe_terapeutica", &p.ClasseTerapeutica},
		{"TIPO_PRODUTO", "tipo_produto", &p.TipoProduto},
		{"TARJA", "tarja", &p.Tarja},
		{"LISTA", "lista", &p.Lista},
		{"NCM", "ncm", &p.NCM},
		{"ID_STATUS", "id_status", &p.IDStatus},
		{"DATA_VIGENCIA", "data_vigencia", &p.DataVigencia},
	}
	for _, pf := range PriceFields {
		fields = append(fields, Field{pf.JSON, pf.Column, pf.Ref(&p.Prices)})
	}
	return fields
}

// FieldByJSON looks a field of p up by its JSON name.
func (p *Product) FieldByJSON(name string) (Field, bool) {
	for _, f := range p.Fields() {
		if f.JSON == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns the table columns matching Fields.
func Columns() []string {
	var p Product
	fields := p.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
	}
	return cols
}

// RequiredFields are the attributes a product must carry when created
// through the API.
var RequiredFields = []string{
	"ID_PRODUTO", "EAN", "REGISTRO_MS", "NOME", "APRESENTACAO", "LABORATORIO", "PRINCIPIO_ATIVO",
}

// ProductPage is one page of the paginated listing.
type ProductPage struct {
	Pagina       int       `json:"pagina"`
	TotalPaginas int       `json:"total_paginas"`
	Data         []Product `json:"data"`
}
