// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exports run statistics in the Prometheus textfile-collector
// format, for node_exporter to pick up after each batch run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/techlife/pkg/types"
)

// Snapshot is the set of values exported for one successful run.
type Snapshot struct {
	InputRows    map[string]int
	Technologies map[types.Stage]int
	Finished     time.Time
}

// Registry builds a fresh registry holding the snapshot's gauges.
func Registry(s Snapshot) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "techlife_input_rows",
		Help: "Data rows read from each source table in the last successful run.",
	}, []string{"source"})
	techs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "techlife_technologies",
		Help: "Technologies per lifecycle stage in the last successful run.",
	}, []string{"stage"})
	last := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "techlife_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run.",
	})
	reg.MustRegister(rows, techs, last)

	for src, n := range s.InputRows {
		rows.WithLabelValues(src).Set(float64(n))
	}
	for _, stage := range []types.Stage{types.StageMature, types.StageGrowth, types.StageEarly} {
		techs.WithLabelValues(string(stage)).Set(float64(s.Technologies[stage]))
	}
	last.Set(float64(s.Finished.Unix()))

	return reg
}

// WriteTextfile writes the snapshot to path atomically.
func WriteTextfile(path string, s Snapshot) error {
	if err := prometheus.WriteToTextfile(path, Registry(s)); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
