package server

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/errors"
	"github.com/crowdguardian/sentinel/internal/logger"
)

var reportHeader = []string{"Date", "Time", "Zone", "People Count", "Density Level", "Alerts Generated"}

// reportRow is one hourly zone record of the generated report.
type reportRow struct {
	Date    string
	Time    string
	Zone    string
	Count   int
	Density string
	Alerts  int
}

// buildReportRows generates hourly per-zone records for the past 24 hours.
func buildReportRows(now time.Time) []reportRow {
	rows := make([]reportRow, 0, 24*len(zoneDefs))

	for i := 0; i < 24; i++ {
		recordTime := now.Add(-time.Duration(24-i) * time.Hour)
		for _, z := range zoneDefs {
			count := 10 + rand.Intn(491)

			density := api.DensityLow
			switch {
			case count >= 300:
				density = api.DensityHigh
			case count >= 100:
				density = api.DensityModerate
			}

			alerts := 0
			if density == api.DensityHigh {
				alerts = rand.Intn(3)
			}

			rows = append(rows, reportRow{
				Date:    recordTime.Format("2006-01-02"),
				Time:    recordTime.Format("15:00"),
				Zone:    z.name,
				Count:   count,
				Density: density,
				Alerts:  alerts,
			})
		}
	}

	return rows
}

// handleReportDownload streams a crowd report as a CSV or XLSX attachment.
func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	now := time.Now()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	rows := buildReportRows(now)
	stamp := now.Format("20060102")

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=crowd_report_%s.csv", stamp))

		cw := csv.NewWriter(w)
		if err := cw.Write(reportHeader); err != nil {
			log.WithError(err).Error("Failed to write report header")
			return
		}
		for _, row := range rows {
			record := []string{
				row.Date, row.Time, row.Zone,
				strconv.Itoa(row.Count), row.Density, strconv.Itoa(row.Alerts),
			}
			if err := cw.Write(record); err != nil {
				log.WithError(err).Error("Failed to write report row")
				return
			}
		}
		cw.Flush()

	case "xlsx":
		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Sheet1"
		for col, title := range reportHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, title)
		}
		for i, row := range rows {
			values := []interface{}{row.Date, row.Time, row.Zone, row.Count, row.Density, row.Alerts}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=crowd_report_%s.xlsx", stamp))

		if err := f.Write(w); err != nil {
			log.WithError(err).Error("Failed to write XLSX report")
		}

	default:
		s.writeError(w, r, errors.NewValidationError("Unsupported report format: "+format))
	}
}
