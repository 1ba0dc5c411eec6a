package http

import (
	"net/http"

	"github.com/plantaxis/plantaxis/internal/analytics"
)

// handleHealth handles GET /healthz.
func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := d.cache.Get(d.dataDir)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"dataset_loaded": err == nil,
	})
}

// handleOptions handles GET /v1/options. Option lists always come from
// the unfiltered base table.
func (d *Dashboard) handleOptions(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	b, ok := d.bundle(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Options(b.Plants, b.Bounds))
}

// handleMetrics handles GET /v1/metrics.
func (d *Dashboard) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("metrics")
	_, _, plants, ok := d.filtered(w, r)
	if !ok {
		done(true)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(plants))
	done(false)
}

// handleMap handles GET /v1/map?type=scatter|capacity|density.
func (d *Dashboard) handleMap(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("map")
	_, _, plants, ok := d.filtered(w, r)
	if !ok {
		done(true)
		return
	}

	mapType := analytics.MapScatter
	if v := r.URL.Query().Get("type"); v != "" {
		mapType = analytics.MapType(v)
	}
	view, err := analytics.GeographicView(plants, mapType)
	if err != nil {
		writeError(w, statusFor(err), err.Error(), GetRequestID(r.Context()))
		done(true)
		return
	}
	writeJSON(w, http.StatusOK, view)
	done(false)
}

// handleCompanies handles GET /v1/companies?metric=capacity|plants|countries.
// Without a metric parameter all three rankings are returned. The view needs the
// optional aggregation dataset; without it the endpoint answers 404 and
// the rest of the dashboard keeps working.
func (d *Dashboard) handleCompanies(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("companies")
	b, c, plants, ok := d.filtered(w, r)
	if !ok {
		done(true)
		return
	}
	if !b.HasCompanies() {
		writeError(w, http.StatusNotFound,
			"company aggregation dataset not available", GetRequestID(r.Context()))
		done(true)
		return
	}

	// The company table is pre-aggregated across all countries, so only
	// an active country selection narrows it to the filtered plant set's
	// owners. Other filters leave the full table visible.
	var observed map[string]struct{}
	if c.CountryActive() {
		observed = analytics.ObservedOwners(plants)
	}
	view := analytics.CompanyRankings(b.Companies, c.Owner, observed)
	if metric := r.URL.Query().Get("metric"); metric != "" {
		ranking, err := view.Ranking(analytics.CompanyMetric(metric))
		if err != nil {
			writeError(w, statusFor(err), err.Error(), GetRequestID(r.Context()))
			done(true)
			return
		}
		writeJSON(w, http.StatusOK, ranking)
		done(false)
		return
	}
	writeJSON(w, http.StatusOK, view)
	done(false)
}

// handleCountries handles GET /v1/countries.
func (d *Dashboard) handleCountries(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("countries")
	_, _, plants, ok := d.filtered(w, r)
	if !ok {
		done(true)
		return
	}
	writeJSON(w, http.StatusOK, analytics.CountryRankings(plants))
	done(false)
}

// handleTables handles GET /v1/tables.
func (d *Dashboard) handleTables(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("tables")
	_, _, plants, ok := d.filtered(w, r)
	if !ok {
		done(true)
		return
	}
	writeJSON(w, http.StatusOK, analytics.DataTables(plants))
	done(false)
}

// handleProfile handles GET /v1/profile.
func (d *Dashboard) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("profile")
	_, _, plants, ok := d.filtered(w, r)
	if !ok {
		done(true)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Profile(plants))
	done(false)
}
