package report

import (
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/talkincode/realtydesk/internal/domain"
)

// propertyRow is the flat CSV shape of a property.
type propertyRow struct {
	ID          int64   `csv:"id"`
	Address     string  `csv:"address"`
	City        string  `csv:"city"`
	State       string  `csv:"state"`
	ZipCode     string  `csv:"zip_code"`
	Type        string  `csv:"type"`
	Status      string  `csv:"status"`
	Price       float64 `csv:"price"`
	Bedrooms    int     `csv:"bedrooms"`
	Bathrooms   int     `csv:"bathrooms"`
	Area        float64 `csv:"area"`
	YearBuilt   int     `csv:"year_built"`
	Description string  `csv:"description"`
	Features    string  `csv:"features"`
	ListingDate string  `csv:"listing_date"`
}

func toPropertyRow(p domain.Property) *propertyRow {
	return &propertyRow{
		ID:          p.ID,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		ZipCode:     p.ZipCode,
		Type:        string(p.Type),
		Status:      string(p.Status),
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Area:        p.Area,
		YearBuilt:   p.YearBuilt,
		Description: p.Description,
		Features:    strings.Join(p.Features, ";"),
		ListingDate: FormatCell(p.ListingDate),
	}
}

func (r *propertyRow) property() (domain.Property, error) {
	p := domain.Property{
		ID:          r.ID,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		ZipCode:     r.ZipCode,
		Type:        domain.PropertyType(r.Type),
		Status:      domain.PropertyStatus(r.Status),
		Price:       r.Price,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Area:        r.Area,
		YearBuilt:   r.YearBuilt,
		Description: r.Description,
	}
	if r.Features != "" {
		p.Features = strings.Split(r.Features, ";")
	}
	if r.ListingDate != "" {
		t, err := dateparse.ParseIn(r.ListingDate, time.Local)
		if err != nil {
			return p, domain.NewValidationError("listing_date", "%v", err)
		}
		p.ListingDate = t
	}
	return p, nil
}

// ExportProperties writes every property column, one row per property.
func ExportProperties(w io.Writer, props []domain.Property) error {
	rows := make([]*propertyRow, len(props))
	for i, p := range props {
		rows[i] = toPropertyRow(p)
	}
	return errors.Wrap(gocsv.Marshal(rows, w), "export properties")
}

// ImportProperties reads a file produced by ExportProperties. Records are
// returned as read; callers validate them when adding to a store.
func ImportProperties(r io.Reader) ([]domain.Property, error) {
	var rows []*propertyRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, domain.NewValidationError("csv", "%v", err)
	}
	out := make([]domain.Property, 0, len(rows))
	for i, row := range rows {
		p, err := row.property()
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}
		out = append(out, p)
	}
	return out, nil
}
