// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lifecycle classifies technology keywords into lifecycle stages and
// portfolio risk buckets, and assembles the report document.
package lifecycle

import (
	"sort"

	"github.com/pdiddy/techlife/pkg/types"
)

// Thresholds are the exclusive lower bounds of the growth and mature stages.
type Thresholds struct {
	Mature int
	Growth int
}

// DefaultThresholds: more than 10 occurrences is mature, 6 to 10 is growth.
var DefaultThresholds = Thresholds{Mature: 10, Growth: 5}

// FromConfig converts the configured thresholds.
func FromConfig(cfg types.ThresholdConfig) Thresholds {
	return Thresholds{Mature: cfg.Mature, Growth: cfg.Growth}
}

// Classify maps an occurrence count to its stage and risk bucket.
func (th Thresholds) Classify(count int) (types.Stage, types.Bucket) {
	switch {
	case count > th.Mature:
		return types.StageMature, types.BucketLowRisk
	case count > th.Growth:
		return types.StageGrowth, types.BucketMediumRisk
	default:
		return types.StageEarly, types.BucketHighRisk
	}
}

// Build classifies every keyword and returns the report. Entries and bucket
// members are in ascending byte order of the technology name.
func Build(keywords types.KeywordTable, th Thresholds, labels types.StageLabels) types.OutputDocument {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := types.OutputDocument{
		TechLifeCycle: make([]types.TechLifecycleEntry, 0, len(names)),
		PortfolioSuggestions: types.PortfolioSuggestions{
			HighRisk:   []string{},
			MediumRisk: []string{},
			LowRisk:    []string{},
		},
	}
	for _, name := range names {
		stage, bucket := th.Classify(keywords[name])
		doc.TechLifeCycle = append(doc.TechLifeCycle, types.TechLifecycleEntry{
			Name:        name,
			Stage:       stage.Label(labels),
			Description: Describe(stage, name),
		})
		doc.PortfolioSuggestions.Add(bucket, name)
	}
	return doc
}

// Counts tallies report entries per stage, keyed by the English stage name.
func Counts(doc types.OutputDocument) map[types.Stage]int {
	return map[types.Stage]int{
		types.StageMature: len(doc.PortfolioSuggestions.LowRisk),
		types.StageGrowth: len(doc.PortfolioSuggestions.MediumRisk),
		types.StageEarly:  len(doc.PortfolioSuggestions.HighRisk),
	}
}
