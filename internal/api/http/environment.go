package http

import (
	"net/http"

	"github.com/plantaxis/plantaxis/internal/analytics"
	"github.com/plantaxis/plantaxis/internal/dataset"
	"github.com/plantaxis/plantaxis/internal/filter"
	"github.com/plantaxis/plantaxis/pkg/types"
)

// filteredEnv fetches the bundle and applies the request's criteria to
// the environmental table. Answers 404 when the optional environmental
// dataset was not loaded.
func (d *Dashboard) filteredEnv(w http.ResponseWriter, r *http.Request) (*dataset.Bundle, *types.EnvTable, bool) {
	b, ok := d.bundle(w, r)
	if !ok {
		return nil, nil, false
	}
	if !b.HasEnv() {
		writeError(w, http.StatusNotFound,
			"environmental dataset not available", GetRequestID(r.Context()))
		return nil, nil, false
	}
	c, err := parseCriteria(r, b.Bounds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), GetRequestID(r.Context()))
		return nil, nil, false
	}
	return b, filter.ApplyEnv(b.Env, c), true
}

// handleEnvMetrics handles GET /v1/environment/metrics.
func (d *Dashboard) handleEnvMetrics(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("environment/metrics")
	_, env, ok := d.filteredEnv(w, r)
	if !ok {
		done(true)
		return
	}
	writeJSON(w, http.StatusOK, analytics.EnvironmentalMetrics(env))
	done(false)
}

// handleEnvMap handles GET /v1/environment/map?type=risk|capacity|density.
func (d *Dashboard) handleEnvMap(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("environment/map")
	_, env, ok := d.filteredEnv(w, r)
	if !ok {
		done(true)
		return
	}

	mapType := analytics.EnvMapRisk
	if v := r.URL.Query().Get("type"); v != "" {
		mapType = analytics.EnvMapType(v)
	}
	view, err := analytics.EnvironmentalMap(env, mapType)
	if err != nil {
		writeError(w, statusFor(err), err.Error(), GetRequestID(r.Context()))
		done(true)
		return
	}
	writeJSON(w, http.StatusOK, view)
	done(false)
}

// handleEnvAnalysis handles GET /v1/environment/analysis.
func (d *Dashboard) handleEnvAnalysis(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	done := d.observe("environment/analysis")
	_, env, ok := d.filteredEnv(w, r)
	if !ok {
		done(true)
		return
	}
	writeJSON(w, http.StatusOK, analytics.EnvironmentalAnalysis(env))
	done(false)
}
