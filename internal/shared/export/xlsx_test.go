package export_test

import (
	"bytes"
	"testing"

	"go-sirh/internal/shared/export"
	"go-sirh/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	rows := []store.Record{
		{"id": float64(1), "montant": float64(2500), "employee": store.Record{"lastName": "Chraibi"}},
		{"id": float64(2), "montant": float64(1200), "employee": nil},
	}
	cols := []export.Column{
		{Header: "ID", Field: "id"},
		{Header: "Montant", Field: "montant"},
		{Header: "Employé", Field: "employee.lastName"},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, "avances", cols, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, _ := f.GetCellValue("avances", "C1")
	assert.Equal(t, "Employé", header)

	amount, _ := f.GetCellValue("avances", "B2")
	assert.Equal(t, "2500", amount)

	name, _ := f.GetCellValue("avances", "C2")
	assert.Equal(t, "Chraibi", name)

	missing, _ := f.GetCellValue("avances", "C3")
	assert.Equal(t, "", missing)
}

func TestColumnsFor(t *testing.T) {
	cols := export.ColumnsFor("id", "statut")
	assert.Equal(t, []export.Column{{Header: "id", Field: "id"}, {Header: "statut", Field: "statut"}}, cols)
}
