package models

import "time"

const (
	ImportStatusInProgress = "in_progress"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

// ImportSummary describes a single import run. It lives only for the
// duration of the run and is handed back to whoever triggered it.
type ImportSummary struct {
	RunID            string     `json:"runId"`
	StartTime        time.Time  `json:"startTime"`
	EndTime          *time.Time `json:"endTime"`
	PagesProcessed   int        `json:"pagesProcessed"`
	TotalPages       int        `json:"totalPages"`
	ProductsImported int        `json:"productsImported"`
	Status           string     `json:"status"`
	Errors           []string   `json:"errors"`
}

func NewImportSummary(runID string, start time.Time) *ImportSummary {
	return &ImportSummary{
		RunID:     runID,
		StartTime: start,
		Status:    ImportStatusInProgress,
		Errors:    []string{},
	}
}

func (s *ImportSummary) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

func (s *ImportSummary) Fail(msg string) {
	s.Status = ImportStatusFailed
	s.AddError(msg)
}

func (s *ImportSummary) Complete() {
	s.Status = ImportStatusCompleted
}

func (s *ImportSummary) Finish(end time.Time) {
	s.EndTime = &end
}

// GuiaPage is one page of the upstream catalog listing with its items
// already normalized.
type GuiaPage struct {
	Pagina          int       `json:"pagina"`
	TotalPaginas    int       `json:"total_paginas"`
	TotalItens      int       `json:"total_itens"`
	TotalData       int       `json:"total_data"`
	DataAtualizacao string    `json:"data_atualizacao"`
	Data            []Product `json:"data"`

	// Malformed is set when the envelope carried no item array at all,
	// which is different from an empty page.
	Malformed bool `json:"-"`
}
