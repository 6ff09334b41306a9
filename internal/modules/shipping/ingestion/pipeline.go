package ingestion

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

const headerRows = 2

// ErrTooFewRows means the upload has no room for a data row after the two header rows.
var ErrTooFewRows = errors.New("file must have at least 3 rows (2 headers + 1 data row)")

// IngestError is fatal to a whole upload.
type IngestError struct {
	Err error
}

func (e *IngestError) Error() string {
	return e.Err.Error()
}

func (e *IngestError) Unwrap() error { return e.Err }

// Row outcomes reported to a Recorder.
const (
	OutcomeParsed  = "parsed"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Recorder receives one call per data row.
type Recorder interface {
	ObserveUploadRow(outcome string)
}

type Pipeline struct {
	log      *logger.Logger
	recorder Recorder
}

func NewPipeline(baseLog *logger.Logger, recorder Recorder) *Pipeline {
	return &Pipeline{
		log:      baseLog.With("module", "IngestionPipeline"),
		recorder: recorder,
	}
}

type record struct {
	fields []string
	err    error
}

// Decode turns upload bytes into text. Valid UTF-8 is used as-is with any byte order mark
// removed; anything else is read as Latin-1, which accepts every byte.
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
		if err == nil {
			return string(out)
		}
		return string(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// Ingest reads decoded CSV text. Rows are numbered by position from 1, blank lines included,
// so the first data row is row 3.
func (p *Pipeline) Ingest(raw string) ([]*types.ShipmentDraft, []string, error) {
	return p.ingest(readCSV(raw))
}

// IngestRows runs the same pipeline over rows that were already split into cells.
func (p *Pipeline) IngestRows(rows [][]string) ([]*types.ShipmentDraft, []string, error) {
	records := make([]record, 0, len(rows))
	for _, r := range rows {
		records = append(records, record{fields: r})
	}
	return p.ingest(records)
}

// IngestUpload picks the reader from the upload's content and name.
func (p *Pipeline) IngestUpload(raw []byte, filename string) ([]*types.ShipmentDraft, []string, error) {
	if IsSpreadsheet(raw, filename) {
		rows, err := ReadXLSX(bytes.NewReader(raw))
		if err != nil {
			return nil, nil, &IngestError{Err: err}
		}
		p.log.Info("reading spreadsheet upload", "filename", filename, "rows", len(rows))
		return p.IngestRows(rows)
	}
	text := Decode(raw)
	p.log.Info("upload decoded", "filename", filename, "bytes", len(text))
	return p.Ingest(text)
}

// readCSV returns one record per CSV row. The reader drops blank lines, so they are put back
// as empty records by comparing where each record starts with how many lines were consumed.
func readCSV(raw string) []record {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var (
		out      []record
		consumed int
		prevOff  int64
	)
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		rec := record{fields: fields}
		start := 0
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				out = append(out, record{err: err})
				break
			}
			rec = record{err: perr.Err}
			start = perr.StartLine
		} else {
			start, _ = r.FieldPos(0)
		}
		for line := consumed + 1; line < start; line++ {
			out = append(out, record{})
		}
		out = append(out, rec)

		off := r.InputOffset()
		consumed += strings.Count(raw[prevOff:off], "\n")
		prevOff = off
	}
	for n, j := strings.Count(raw[prevOff:], "\n"), 0; j < n; j++ {
		out = append(out, record{})
	}
	return out
}

func (p *Pipeline) ingest(records []record) ([]*types.ShipmentDraft, []string, error) {
	if len(records) <= headerRows {
		p.log.Warn("upload rejected", "rows", len(records), "error", ErrTooFewRows)
		return nil, nil, &IngestError{Err: ErrTooFewRows}
	}

	drafts := make([]*types.ShipmentDraft, 0, len(records)-headerRows)
	errs := []string{}
	for i, rec := range records[headerRows:] {
		n := i + headerRows + 1
		if rec.err != nil {
			errs = append(errs, p.rowError(n, rec.err))
			continue
		}
		draft, err := ParseRow(rec.fields, n)
		if err != nil {
			errs = append(errs, p.rowError(n, err))
			continue
		}
		if draft == nil {
			p.log.Warn("row skipped: missing required ship-to fields", "row", n)
			p.observe(OutcomeSkipped)
			continue
		}
		drafts = append(drafts, draft)
		p.observe(OutcomeParsed)
	}

	p.log.Info("upload parsed", "drafts", len(drafts), "errors", len(errs))
	return drafts, errs, nil
}

func (p *Pipeline) rowError(n int, err error) string {
	msg := fmt.Sprintf("Error parsing row %d: %v", n, err)
	p.log.Warn(msg)
	p.observe(OutcomeFailed)
	return msg
}

func (p *Pipeline) observe(outcome string) {
	if p.recorder != nil {
		p.recorder.ObserveUploadRow(outcome)
	}
}
