package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/talkincode/realtydesk/internal/domain"
)

// Record is anything with named columns.
type Record interface {
	Field(name string) (interface{}, bool)
}

// Row is an ad-hoc record keyed by column name.
type Row map[string]interface{}

func (r Row) Field(name string) (interface{}, bool) {
	v, ok := r[name]
	return v, ok
}

func Properties(props []domain.Property) []Record {
	out := make([]Record, len(props))
	for i := range props {
		out[i] = props[i]
	}
	return out
}

func Clients(clients []domain.Client) []Record {
	out := make([]Record, len(clients))
	for i := range clients {
		out[i] = clients[i]
	}
	return out
}

func Agents(agents []domain.Agent) []Record {
	out := make([]Record, len(agents))
	for i := range agents {
		out[i] = agents[i]
	}
	return out
}

func Transactions(txs []domain.Transaction) []Record {
	out := make([]Record, len(txs))
	for i := range txs {
		out[i] = txs[i]
	}
	return out
}

// Project resolves fields on every record and renders the cells. The first
// row is the header.
func Project(records []Record, fields []string) ([][]string, error) {
	if len(fields) == 0 {
		return nil, domain.NewValidationError("fields", "at least one field is required")
	}
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), fields...))
	for i, rec := range records {
		row := make([]string, len(fields))
		for j, name := range fields {
			v, ok := rec.Field(name)
			if !ok {
				return nil, domain.NewValidationError("fields", "record %d has no field %q", i, name)
			}
			row[j] = FormatCell(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GenerateCSV writes the header and one row per record. Nothing is written
// to w if any record lacks a requested field.
func GenerateCSV(w io.Writer, records []Record, fields []string) error {
	rows, err := Project(records, fields)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	cw := gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "flush csv")
	}
	_, err = w.Write(buf.Bytes())
	return errors.Wrap(err, "write csv")
}

// FormatCell renders a value the way it appears in reports. Dates use
// 2006-01-02, lists are joined with ";" and floats drop trailing zeros.
func FormatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateOnly)
	case []string:
		return strings.Join(t, ";")
	case []int64:
		parts := make([]string, len(t))
		for i, n := range t {
			parts[i] = cast.ToString(n)
		}
		return strings.Join(parts, ";")
	}
	return cast.ToString(v)
}

// ParseFields splits a comma separated field list.
func ParseFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
