package server

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/crowdguardian/sentinel/internal/api"
)

func TestBuildReportRows(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)
	rows := buildReportRows(now)

	// 24 hours x 4 zones.
	require.Len(t, rows, 96)

	for _, row := range rows {
		assert.GreaterOrEqual(t, row.Count, 10)
		assert.LessOrEqual(t, row.Count, 500)

		switch {
		case row.Count >= 300:
			assert.Equal(t, api.DensityHigh, row.Density)
		case row.Count >= 100:
			assert.Equal(t, api.DensityModerate, row.Density)
		default:
			assert.Equal(t, api.DensityLow, row.Density)
			assert.Zero(t, row.Alerts)
		}
	}
}

func TestReportDownloadCSV(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/download", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment;filename=crowd_report_")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 97) // header + 96 rows
	assert.Equal(t, reportHeader, records[0])
}

func TestReportDownloadXLSX(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/download?format=xlsx", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 97)
	assert.Equal(t, reportHeader, rows[0])
}

func TestReportDownloadUnknownFormat(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/download?format=pdf", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported report format")
}
