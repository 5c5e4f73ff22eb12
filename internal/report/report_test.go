package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/realtydesk/internal/domain"
)

func TestGenerateCSVRows(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateCSV(&buf, []Record{Row{"id": 1, "price": 100}}, []string{"id", "price"})
	require.NoError(t, err)
	assert.Equal(t, "id,price\n1,100\n", buf.String())
}

func TestGenerateCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateCSV(&buf, nil, []string{"id", "address"}))
	assert.Equal(t, "id,address\n", buf.String())
}

func TestGenerateCSVMissingField(t *testing.T) {
	var buf bytes.Buffer
	records := []Record{Row{"id": 1}, Row{"id": 2, "price": 5}}
	err := GenerateCSV(&buf, records, []string{"id", "price"})
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, buf.Len(), "nothing written on error")

	err = GenerateCSV(&buf, records, nil)
	assert.True(t, domain.IsValidation(err))
}

func TestGenerateCSVProperties(t *testing.T) {
	props := []domain.Property{
		{
			ID:          7,
			Address:     "12 Main St, Apt 4",
			Type:        domain.TypeApartment,
			Price:       315000.5,
			Features:    []string{"Pool", "Garage"},
			ListingDate: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
		},
	}
	var buf bytes.Buffer
	err := GenerateCSV(&buf, Properties(props), []string{"id", "address", "price", "features", "listing_date"})
	require.NoError(t, err)
	assert.Equal(t,
		"id,address,price,features,listing_date\n7,\"12 Main St, Apt 4\",315000.5,Pool;Garage,2024-03-09\n",
		buf.String())

	buf.Reset()
	err = GenerateCSV(&buf, Properties(props), []string{"id", "bogus"})
	assert.True(t, domain.IsValidation(err))
}

func TestGenerateCSVClientsAgentsAndTransactions(t *testing.T) {
	clients := []domain.Client{{ID: 1, FirstName: "Ada", LastName: "Lovelace", Type: domain.ClientBuyer}}
	var buf bytes.Buffer
	require.NoError(t, GenerateCSV(&buf, Clients(clients), []string{"name", "type"}))
	assert.Equal(t, "name,type\nAda Lovelace,buyer\n", buf.String())

	txs := []domain.Transaction{{ID: 2, PropertyID: 3, ClientID: 1, Amount: 1000, Status: domain.DealPending}}
	buf.Reset()
	require.NoError(t, GenerateCSV(&buf, Transactions(txs), []string{"property_id", "amount", "status"}))
	assert.Equal(t, "property_id,amount,status\n3,1000,pending\n", buf.String())

	agents := []domain.Agent{{ID: 4, FirstName: "Sam", LastName: "Reed", CommissionRate: 0.05, AssignedProperties: []int64{3, 5}}}
	buf.Reset()
	require.NoError(t, GenerateCSV(&buf, Agents(agents), []string{"name", "commission_rate", "assigned_properties"}))
	assert.Equal(t, "name,commission_rate,assigned_properties\nSam Reed,0.05,3;5\n", buf.String())
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", FormatCell(nil))
	assert.Equal(t, "", FormatCell(time.Time{}))
	assert.Equal(t, "1;2", FormatCell([]int64{1, 2}))
	assert.Equal(t, "true", FormatCell(true))
	assert.Equal(t, "2.5", FormatCell(2.5))
}

func TestParseFields(t *testing.T) {
	assert.Equal(t, []string{"id", "price"}, ParseFields(" id, ,price,"))
	assert.Nil(t, ParseFields(""))
}

func TestExportImportProperties(t *testing.T) {
	props := []domain.Property{
		{
			ID: 1, Address: "1 Elm St", City: "Austin", State: "TX", ZipCode: "78701",
			Type: domain.TypeHouse, Status: domain.StatusAvailable, Price: 450000,
			Bedrooms: 3, Bathrooms: 2, Area: 1800, YearBuilt: 1999,
			Description: "corner lot", Features: []string{"Garage", "Pool"},
			ListingDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		},
		{
			ID: 2, Address: "2 Pine St", Type: domain.TypeLand, Status: domain.StatusSold,
			Price: 90000, Area: 10000,
		},
	}
	var buf bytes.Buffer
	require.NoError(t, ExportProperties(&buf, props))
	assert.True(t, strings.HasPrefix(buf.String(), "id,address,city,state,zip_code,type,status,price,"))

	got, err := ImportProperties(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, props[0].Address, got[0].Address)
	assert.Equal(t, props[0].Features, got[0].Features)
	assert.Equal(t, props[0].YearBuilt, got[0].YearBuilt)
	assert.True(t, props[0].ListingDate.Equal(got[0].ListingDate))
	assert.Nil(t, got[1].Features)
	assert.Equal(t, domain.StatusSold, got[1].Status)
}

func TestImportPropertiesRejectsBadDate(t *testing.T) {
	in := "id,address,type,status,price,area,listing_date\n1,a,house,available,1,1,not-a-date\n"
	_, err := ImportProperties(strings.NewReader(in))
	assert.True(t, domain.IsValidation(err))
}

func TestWriteWorkbook(t *testing.T) {
	props := []domain.Property{
		{ID: 1, Address: "1 Elm St", Price: 300000},
		{ID: 2, Address: "2 Pine St", Price: 250000},
	}
	clients := []domain.Client{{ID: 3, FirstName: "Ada", Type: domain.ClientBuyer}}

	var buf bytes.Buffer
	err := WriteWorkbook(&buf,
		Sheet{Name: "Properties", Fields: []string{"id", "address", "price"}, Records: Properties(props)},
		Sheet{Name: "Clients", Fields: []string{"name", "type"}, Records: Clients(clients)},
	)
	require.NoError(t, err)

	xlsx, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "address", xlsx.GetCellValue("Properties", "B1"))
	assert.Equal(t, "2 Pine St", xlsx.GetCellValue("Properties", "B3"))
	assert.Equal(t, "300000", xlsx.GetCellValue("Properties", "C2"))
	assert.Equal(t, "Ada", xlsx.GetCellValue("Clients", "A2"))
}

func TestWriteWorkbookRejects(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, domain.IsValidation(WriteWorkbook(&buf)))
	err := WriteWorkbook(&buf, Sheet{Name: "P", Fields: []string{"nope"}, Records: []Record{Row{}}})
	assert.True(t, domain.IsValidation(err))
}

func TestCellName(t *testing.T) {
	assert.Equal(t, "A1", cellName(0, 1))
	assert.Equal(t, "Z2", cellName(25, 2))
	assert.Equal(t, "AA3", cellName(26, 3))
	assert.Equal(t, "AB10", cellName(27, 10))
}
