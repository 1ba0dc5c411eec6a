package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/plantaxis/plantaxis/internal/dataset"
	apperrors "github.com/plantaxis/plantaxis/internal/errors"
	"github.com/plantaxis/plantaxis/internal/explorer"
	"github.com/plantaxis/plantaxis/internal/filter"
	"github.com/plantaxis/plantaxis/internal/observability"
	"github.com/plantaxis/plantaxis/pkg/types"
)

// Dashboard serves the analytics API over the memoized dataset bundle.
// All view handlers follow the same shape: fetch the bundle, parse the
// filter criteria from query parameters, filter, aggregate, respond.
type Dashboard struct {
	dataDir  string
	cache    *dataset.Cache
	explorer *explorer.Explorer // nil when the SQL explorer is disabled
	stats    *observability.RenderStats
}

// NewDashboard creates the dashboard handler set.
func NewDashboard(dataDir string, cache *dataset.Cache, exp *explorer.Explorer, stats *observability.RenderStats) *Dashboard {
	return &Dashboard{dataDir: dataDir, cache: cache, explorer: exp, stats: stats}
}

// Routes returns the dashboard's HTTP handler with the default
// middleware chain applied.
func (d *Dashboard) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", d.handleHealth)
	mux.HandleFunc("/v1/options", d.handleOptions)
	mux.HandleFunc("/v1/metrics", d.handleMetrics)
	mux.HandleFunc("/v1/map", d.handleMap)
	mux.HandleFunc("/v1/companies", d.handleCompanies)
	mux.HandleFunc("/v1/countries", d.handleCountries)
	mux.HandleFunc("/v1/environment/metrics", d.handleEnvMetrics)
	mux.HandleFunc("/v1/environment/map", d.handleEnvMap)
	mux.HandleFunc("/v1/environment/analysis", d.handleEnvAnalysis)
	mux.HandleFunc("/v1/tables", d.handleTables)
	mux.HandleFunc("/v1/profile", d.handleProfile)
	mux.HandleFunc("/v1/raw", d.handleRaw)
	mux.HandleFunc("/v1/sql", d.handleSQL)
	mux.HandleFunc("/v1/reload", d.handleReload)
	mux.HandleFunc("/v1/stats", d.handleStats)

	return DefaultMiddleware()(mux)
}

// bundle fetches the memoized dataset bundle. A load failure means the
// required plants dataset is unavailable, so the API answers 503 until a
// reload succeeds.
func (d *Dashboard) bundle(w http.ResponseWriter, r *http.Request) (*dataset.Bundle, bool) {
	b, err := d.cache.Get(d.dataDir)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error(), GetRequestID(r.Context()))
		return nil, false
	}
	return b, true
}

// parseCriteria builds filter criteria from query parameters. Absent
// parameters mean no restriction; a capacity range covering the observed
// bounds is normalized away.
func parseCriteria(r *http.Request, bounds types.CapacityRange) (types.FilterCriteria, error) {
	q := r.URL.Query()
	c := types.AllCriteria()

	if v := q.Get("country"); v != "" {
		c.Country = v
	}
	if v := q.Get("owner"); v != "" {
		c.Owner = v
	}

	minS, maxS := q.Get("min_capacity"), q.Get("max_capacity")
	if minS != "" || maxS != "" {
		rng := bounds
		if minS != "" {
			v, err := strconv.ParseFloat(minS, 64)
			if err != nil {
				return c, apperrors.NewFilterError("invalid min_capacity: " + minS)
			}
			rng.Min = v
		}
		if maxS != "" {
			v, err := strconv.ParseFloat(maxS, 64)
			if err != nil {
				return c, apperrors.NewFilterError("invalid max_capacity: " + maxS)
			}
			rng.Max = v
		}
		if rng.Min > rng.Max {
			return c, apperrors.NewFilterError("min_capacity exceeds max_capacity")
		}
		c.Capacity = &rng
		c = c.NormalizeCapacity(bounds)
	}

	return c, nil
}

// filtered fetches the bundle and applies the request's criteria to the
// plant table. Returns ok=false after writing the error response.
func (d *Dashboard) filtered(w http.ResponseWriter, r *http.Request) (*dataset.Bundle, types.FilterCriteria, *types.PlantTable, bool) {
	b, ok := d.bundle(w, r)
	if !ok {
		return nil, types.FilterCriteria{}, nil, false
	}
	c, err := parseCriteria(r, b.Bounds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), GetRequestID(r.Context()))
		return nil, types.FilterCriteria{}, nil, false
	}
	return b, c, filter.Apply(b.Plants, c), true
}

// observe starts a render-stat measurement for one view. The returned
// function records the elapsed time when the handler finishes.
func (d *Dashboard) observe(view string) func(failed bool) {
	start := time.Now()
	return func(failed bool) {
		if d.stats != nil {
			d.stats.Record(view, time.Since(start), failed)
		}
	}
}

// requireGet answers 405 for anything but GET.
func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", GetRequestID(r.Context()))
		return false
	}
	return true
}

// statusFor maps structured errors to HTTP status codes.
func statusFor(err error) int {
	var pe *apperrors.PlantaxisError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	switch pe.Code {
	case apperrors.CodeInvalidCriteria, apperrors.CodeUnknownMapType,
		apperrors.CodeUnknownView, apperrors.CodeQueryRejected:
		return http.StatusBadRequest
	case apperrors.CodeDatasetAbsent:
		return http.StatusNotFound
	case apperrors.CodeDatasetNotFound:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
