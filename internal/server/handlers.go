package server

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/crowdguardian/sentinel/internal/analysis"
	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/errors"
	"github.com/crowdguardian/sentinel/internal/logger"
	"github.com/crowdguardian/sentinel/pkg/version"
)

const analyticsDays = 7

// zoneDefs mirror the monitored sub-areas and their typical load.
var zoneDefs = []struct {
	name     string
	status   string
	min, max int
}{
	{"Main Entrance", api.ZoneStatusStable, 50, 200},
	{"Food Court", api.ZoneStatusCrowded, 150, 400},
	{"Concert Hall", api.ZoneStatusNormal, 100, 300},
	{"VIP Lounge", api.ZoneStatusQuiet, 10, 50},
}

// handleAnalyze accepts a multipart media upload and returns the crowd
// analysis result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		analysisRejectsTotal.WithLabelValues("no_file").Inc()
		s.writeError(w, r, errors.NewValidationError("No file uploaded"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		analysisRejectsTotal.WithLabelValues("no_file").Inc()
		s.writeError(w, r, errors.NewValidationError("No file selected"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, errors.WrapInternalError(err, "Failed to read upload"))
		return
	}

	var result *api.AnalysisResult
	if analysis.IsVideoFilename(header.Filename) {
		result, err = s.analyzer.AnalyzeVideo(data)
	} else {
		result, err = s.analyzer.AnalyzeImage(data)
	}
	if err != nil {
		analysisRejectsTotal.WithLabelValues("analysis_failed").Inc()
		s.writeError(w, r, errors.Wrap(err, errors.ErrorTypeInternal, err.Error(), http.StatusInternalServerError))
		return
	}

	analysesTotal.WithLabelValues(result.DensityLevel).Inc()

	if err := s.history.Record(r.Context(), result); err != nil {
		log.WithError(err).Warn("Failed to record analysis history")
	}

	// Critical crowds trigger a push alert; the response never waits on it.
	if result.DensityLevel == api.DensityHigh {
		go func(count int) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.alerts.NotifyHighDensity(ctx, count)
		}(result.PeopleCount)
	}

	log.WithFields(logger.Fields{
		"file":          header.Filename,
		"people_count":  result.PeopleCount,
		"density_level": result.DensityLevel,
		"occupancy":     result.Occupancy,
	}).Info("Analysis completed")

	s.writeJSON(w, http.StatusOK, result)
}

// handleAnalytics returns the aggregate historical snapshot: one entry per
// day for the trailing week plus the current per-zone picture. Days with
// recorded history use real aggregates; the rest are synthesized.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	now := time.Now()

	aggregates, err := s.history.DailyAggregates(r.Context(), analyticsDays, now)
	if err != nil {
		log.WithError(err).Warn("History unavailable, serving synthetic analytics")
		aggregates = map[string]DayAggregate{}
	}

	labels := make([]string, 0, analyticsDays)
	totals := make([]int, 0, analyticsDays)
	densities := make([]float64, 0, analyticsDays)

	for i := 0; i < analyticsDays; i++ {
		day := now.AddDate(0, 0, -(analyticsDays - 1 - i))
		labels = append(labels, day.Weekday().String())

		if agg, ok := aggregates[day.Format("2006-01-02")]; ok && agg.Samples > 0 {
			totals = append(totals, agg.Total)
			densities = append(densities, agg.AvgDensity)
			continue
		}

		totals = append(totals, 8000+rand.Intn(7001))
		densities = append(densities, roundTo(0.1+rand.Float64()*0.3, 2))
	}

	zones := make([]api.Zone, 0, len(zoneDefs))
	for _, z := range zoneDefs {
		zones = append(zones, api.Zone{
			Name:         z.name,
			CurrentCount: z.min + rand.Intn(z.max-z.min+1),
			Status:       z.status,
		})
	}

	s.writeJSON(w, http.StatusOK, api.AnalyticsSnapshot{
		Labels: labels,
		Datasets: api.Datasets{
			TotalPeople: totals,
			AvgDensity:  densities,
		},
		Zones: zones,
	})
}

// handleVersion handles the /version endpoint
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	s.writeJSON(w, http.StatusOK, version.GetInfo())
}

// writeJSON is a helper to write JSON responses
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError is a helper to write error responses
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.errorHandler.HandleError(w, r, err)
}
