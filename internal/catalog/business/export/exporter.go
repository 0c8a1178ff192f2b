package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"pharmacatalog_api/internal/catalog/business/converters"
	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/logger"
)

const (
	ArchiveName = "produtos.zip"
	EntryName   = "produtos.csv"

	CharsetUTF8        = "utf-8"
	CharsetWindows1252 = "windows-1252"
)

// Source pages the catalog by primary key.
type Source interface {
	ListAfter(ctx context.Context, afterID int64, limit int) ([]models.Product, error)
}

type Exporter struct {
	src      Source
	pageSize int
	log      logger.Logger
	now      func() time.Time
}

func NewExporter(src Source, pageSize int, log logger.Logger) *Exporter {
	return &Exporter{src: src, pageSize: pageSize, log: log, now: time.Now}
}

// SupportedCharset reports whether name is an encoding WriteZip accepts.
// The empty name means UTF-8.
func SupportedCharset(name string) bool {
	switch strings.ToLower(name) {
	case "", CharsetUTF8, CharsetWindows1252:
		return true
	}
	return false
}

// WriteZip streams the whole catalog to w as a ZIP archive holding one CSV
// file. The store is read one window at a time and the next window is only
// requested once the previous one has been encoded. On error the archive is
// left unterminated so that a truncated download cannot pass as complete.
func (e *Exporter) WriteZip(ctx context.Context, w io.Writer, charset string) (int, error) {
	zw := zip.NewWriter(w)
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     EntryName,
		Method:   zip.Deflate,
		Modified: e.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("create zip entry: %w", err)
	}

	var sink io.Writer = entry
	var encoder *transform.Writer
	if strings.EqualFold(charset, CharsetWindows1252) {
		encoder = transform.NewWriter(entry, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
		sink = encoder
	}
	cw := csv.NewWriter(sink)
	if err := cw.Write(header()); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	pages := make(chan []models.Product, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(pages)
		var lastID int64
		for {
			batch, err := e.src.ListAfter(gctx, lastID, e.pageSize)
			if err != nil {
				return fmt.Errorf("read products after id %d: %w", lastID, err)
			}
			if len(batch) == 0 {
				return nil
			}
			select {
			case pages <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
			lastID = batch[len(batch)-1].ID
			if len(batch) < e.pageSize {
				return nil
			}
		}
	})

	rows := 0
	g.Go(func() error {
		for batch := range pages {
			for i := range batch {
				if err := cw.Write(record(&batch[i])); err != nil {
					return fmt.Errorf("write csv row: %w", err)
				}
			}
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("flush csv: %w", err)
			}
			rows += len(batch)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return rows, err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("flush csv: %w", err)
	}
	if encoder != nil {
		if err := encoder.Close(); err != nil {
			return rows, fmt.Errorf("flush charset encoder: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return rows, fmt.Errorf("close zip: %w", err)
	}
	e.log.Log("Exported %d products", rows)
	return rows, nil
}

func header() []string {
	var p models.Product
	cols := []string{"id"}
	for _, f := range p.Fields() {
		cols = append(cols, f.JSON)
	}
	return append(cols, "created_at", "updated_at")
}

func record(p *models.Product) []string {
	fields := p.Fields()
	out := make([]string, 0, len(fields)+3)
	out = append(out, strconv.FormatInt(p.ID, 10))
	for _, f := range fields {
		switch v := f.Value().(type) {
		case string:
			out = append(out, v)
		case *time.Time:
			out = append(out, converters.FormatDate(v))
		case fmt.Stringer:
			out = append(out, v.String())
		default:
			out = append(out, "")
		}
	}
	return append(out,
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339))
}
