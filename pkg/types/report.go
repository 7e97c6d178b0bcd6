// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stage is the coarse lifecycle stage of a technology keyword.
type Stage string

const (
	StageMature Stage = "mature"
	StageGrowth Stage = "growth"
	StageEarly  Stage = "early"
)

// Korean returns the stage name used in the source reports.
func (s Stage) Korean() string {
	switch s {
	case StageMature:
		return "성숙"
	case StageGrowth:
		return "성장"
	case StageEarly:
		return "초기"
	}
	return string(s)
}

// Label spells the stage according to the selected label set.
func (s Stage) Label(labels StageLabels) string {
	if labels == LabelsKorean {
		return s.Korean()
	}
	return string(s)
}

// Bucket is a portfolio risk bucket. Buckets correspond one-to-one with stages.
type Bucket string

const (
	BucketHighRisk   Bucket = "high_risk"
	BucketMediumRisk Bucket = "medium_risk"
	BucketLowRisk    Bucket = "low_risk"
)

// KeywordTable maps a trimmed technology keyword to its occurrence count.
type KeywordTable map[string]int

// PromisingTechTable maps a technology name to its invention title.
// It is loaded for fail-fast validation but does not feed the report.
type PromisingTechTable map[string]string

// ExpenditureTable maps a division label to its total R&D expenditure
// (millions of won). Like PromisingTechTable it does not feed the report.
type ExpenditureTable map[string]int64

// TechLifecycleEntry is one classified technology in the report.
type TechLifecycleEntry struct {
	Name        string `json:"name" yaml:"name"`
	Stage       string `json:"stage" yaml:"stage"`
	Description string `json:"description" yaml:"description"`
}

// PortfolioSuggestions partitions technology names by risk bucket.
// Every name appears in exactly one bucket.
type PortfolioSuggestions struct {
	HighRisk   []string `json:"high_risk" yaml:"high_risk"`
	MediumRisk []string `json:"medium_risk" yaml:"medium_risk"`
	LowRisk    []string `json:"low_risk" yaml:"low_risk"`
}

// Add appends name to the given bucket.
func (p *PortfolioSuggestions) Add(b Bucket, name string) {
	switch b {
	case BucketLowRisk:
		p.LowRisk = append(p.LowRisk, name)
	case BucketMediumRisk:
		p.MediumRisk = append(p.MediumRisk, name)
	default:
		p.HighRisk = append(p.HighRisk, name)
	}
}

// OutputDocument is the report persisted by the pipeline.
type OutputDocument struct {
	TechLifeCycle        []TechLifecycleEntry `json:"tech_life_cycle" yaml:"tech_life_cycle"`
	PortfolioSuggestions PortfolioSuggestions `json:"portfolio_suggestions" yaml:"portfolio_suggestions"`
}
