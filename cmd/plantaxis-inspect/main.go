// Package main implements plantaxis-inspect, an offline tool that loads
// a dataset directory, applies filters, and prints one dashboard view as
// JSON. Useful for checking datasets before serving them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/plantaxis/plantaxis/internal/analytics"
	"github.com/plantaxis/plantaxis/internal/dataset"
	"github.com/plantaxis/plantaxis/internal/filter"
	"github.com/plantaxis/plantaxis/pkg/types"
)

func main() {
	var (
		dataDir     string
		view        string
		country     string
		owner       string
		minCapacity float64
		maxCapacity float64
		mapType     string
	)

	flag.StringVar(&dataDir, "data-dir", "./data", "Directory holding the CSV datasets")
	flag.StringVar(&view, "view", "metrics", "View to print: metrics, map, companies, countries, env-metrics, env-map, env-analysis, tables, profile, options, report")
	flag.StringVar(&country, "country", types.All, "Country filter (exact match)")
	flag.StringVar(&owner, "owner", types.All, "Owner filter (exact match)")
	flag.Float64Var(&minCapacity, "min-capacity", -1, "Minimum capacity in ttpa (-1 for no bound)")
	flag.Float64Var(&maxCapacity, "max-capacity", -1, "Maximum capacity in ttpa (-1 for no bound)")
	flag.StringVar(&mapType, "map-type", "", "Map variant for map views")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "plantaxis-inspect - Offline dataset inspection\n\n")
		fmt.Fprintf(os.Stderr, "Usage: plantaxis-inspect [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  plantaxis-inspect --data-dir ./data --view metrics\n")
		fmt.Fprintf(os.Stderr, "  plantaxis-inspect --view countries --country China\n")
		fmt.Fprintf(os.Stderr, "  plantaxis-inspect --view env-metrics --min-capacity 1000\n")
	}
	flag.Parse()

	b, err := dataset.Load(dataDir, nil)
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}

	criteria := types.FilterCriteria{Country: country, Owner: owner}
	if minCapacity >= 0 || maxCapacity >= 0 {
		rng := b.Bounds
		if minCapacity >= 0 {
			rng.Min = minCapacity
		}
		if maxCapacity >= 0 {
			rng.Max = maxCapacity
		}
		criteria.Capacity = &rng
		criteria = criteria.NormalizeCapacity(b.Bounds)
	}

	out, err := render(b, criteria, view, mapType)
	if err != nil {
		log.Fatalf("Failed to compute view: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}

// render computes one view over the filtered tables.
func render(b *dataset.Bundle, c types.FilterCriteria, view, mapType string) (any, error) {
	plants := filter.Apply(b.Plants, c)

	switch view {
	case "metrics":
		return analytics.Summarize(plants), nil
	case "map":
		mt := analytics.MapScatter
		if mapType != "" {
			mt = analytics.MapType(mapType)
		}
		return analytics.GeographicView(plants, mt)
	case "companies":
		if !b.HasCompanies() {
			return nil, fmt.Errorf("company aggregation dataset not available")
		}
		var observed map[string]struct{}
		if c.CountryActive() {
			observed = analytics.ObservedOwners(plants)
		}
		return analytics.CompanyRankings(b.Companies, c.Owner, observed), nil
	case "countries":
		return analytics.CountryRankings(plants), nil
	case "tables":
		return analytics.DataTables(plants), nil
	case "profile":
		return analytics.Profile(plants), nil
	case "options":
		return analytics.Options(b.Plants, b.Bounds), nil
	case "report":
		return b.Report, nil
	case "env-metrics", "env-map", "env-analysis":
		if !b.HasEnv() {
			return nil, fmt.Errorf("environmental dataset not available")
		}
		env := filter.ApplyEnv(b.Env, c)
		switch view {
		case "env-metrics":
			return analytics.EnvironmentalMetrics(env), nil
		case "env-map":
			mt := analytics.EnvMapRisk
			if mapType != "" {
				mt = analytics.EnvMapType(mapType)
			}
			return analytics.EnvironmentalMap(env, mt)
		default:
			return analytics.EnvironmentalAnalysis(env), nil
		}
	default:
		return nil, fmt.Errorf("unknown view: %s", view)
	}
}
