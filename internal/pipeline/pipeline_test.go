// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/korean"

	"github.com/pdiddy/techlife/internal/archive"
	"github.com/pdiddy/techlife/internal/report"
	"github.com/pdiddy/techlife/internal/source"
	"github.com/pdiddy/techlife/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- test helpers ---

const (
	keywordsCSV      = "과제번호,키워드명\n1,A\n2,A\n3,A\n4,A\n5,A\n6,A\n7,B\n"
	promisingTechCSV = "기술명,발명의 명칭\n배터리,전극 구조\n센서,압력 센서\n"
	expenditureCSV   = "구분,총 연구개발비(백만원)\n대덕,\"1,234,567\"\n광주,\"89,000\"\n"
)

func writeInput(t *testing.T, path, content string) {
	t.Helper()
	encoded, err := korean.EUCKR.NewEncoder().String(content)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o644))
}

// testConfig writes the three inputs into a temp dir and returns a config
// pointing at them.
func testConfig(t *testing.T) types.PipelineConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := types.DefaultPipelineConfig()
	cfg.Inputs.Keywords.Path = filepath.Join(dir, "keywords.csv")
	cfg.Inputs.PromisingTech.Path = filepath.Join(dir, "promising.csv")
	cfg.Inputs.Expenditure.Path = filepath.Join(dir, "expenditure.CSV")
	cfg.Output.Path = filepath.Join(dir, "data.json")

	writeInput(t, cfg.Inputs.Keywords.Path, keywordsCSV)
	writeInput(t, cfg.Inputs.PromisingTech.Path, promisingTechCSV)
	writeInput(t, cfg.Inputs.Expenditure.Path, expenditureCSV)
	return cfg
}

func readReport(t *testing.T, path string) types.OutputDocument {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc types.OutputDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

// --- end-to-end ---

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	res, err := New(cfg, zap.NewNop(), &out).Run(context.Background())
	require.NoError(t, err)

	doc := readReport(t, cfg.Output.Path)
	require.Len(t, doc.TechLifeCycle, 2)
	assert.Equal(t, "A", doc.TechLifeCycle[0].Name)
	assert.Equal(t, "growth", doc.TechLifeCycle[0].Stage)
	assert.Equal(t, "B", doc.TechLifeCycle[1].Name)
	assert.Equal(t, "early", doc.TechLifeCycle[1].Stage)
	assert.Equal(t, []string{"A"}, doc.PortfolioSuggestions.MediumRisk)
	assert.Equal(t, []string{"B"}, doc.PortfolioSuggestions.HighRisk)
	assert.Empty(t, doc.PortfolioSuggestions.LowRisk)

	assert.Equal(t, types.ExpenditureTable{"대덕": 1234567, "광주": 89000}, res.Tables.Expenditure)
	assert.Len(t, res.Tables.PromisingTech, 2)
	assert.Equal(t, 7, res.Tables.Rows["keywords"])
	assert.Contains(t, out.String(), "파일이 성공적으로 생성되었습니다.")
	assert.Empty(t, res.RunID)
}

func TestRunOutputIsUnescapedUTF8(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, cfg.Inputs.Keywords.Path, "키워드명\n인공지능\n")

	_, err := New(cfg, nil, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "인공지능"`)
	assert.NotContains(t, string(data), `\u`)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"tech_life_cycle\""))
}

// --- failure paths ---

func TestRunLoadFailuresWriteNothing(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(t *testing.T, cfg *types.PipelineConfig)
		wantErr   error
		wantInput string
		wantMsg   string
	}{
		{
			name: "missing keyword file",
			mutate: func(t *testing.T, cfg *types.PipelineConfig) {
				require.NoError(t, os.Remove(cfg.Inputs.Keywords.Path))
			},
			wantErr:   source.ErrMissingInputFile,
			wantInput: InputKeywords,
			wantMsg:   "keywords.csv 파일을 찾을 수 없습니다",
		},
		{
			name: "missing promising tech file",
			mutate: func(t *testing.T, cfg *types.PipelineConfig) {
				require.NoError(t, os.Remove(cfg.Inputs.PromisingTech.Path))
			},
			wantErr:   source.ErrMissingInputFile,
			wantInput: InputPromisingTech,
			wantMsg:   "promising.csv 파일을 찾을 수 없습니다",
		},
		{
			name: "undecodable keyword file",
			mutate: func(t *testing.T, cfg *types.PipelineConfig) {
				require.NoError(t, os.WriteFile(cfg.Inputs.Keywords.Path, []byte("\xB0\n"), 0o644))
			},
			wantErr:   source.ErrEncoding,
			wantInput: InputKeywords,
			wantMsg:   "인코딩을 읽을 수 없습니다",
		},
		{
			name: "malformed expenditure",
			mutate: func(t *testing.T, cfg *types.PipelineConfig) {
				writeInput(t, cfg.Inputs.Expenditure.Path, "구분,총 연구개발비(백만원)\n대덕,12a3\n")
			},
			wantErr:   source.ErrMalformedNumber,
			wantInput: InputExpenditure,
			wantMsg:   "expenditure.CSV 파일을 처리하는 중 오류가 발생했습니다",
		},
		{
			name: "missing column",
			mutate: func(t *testing.T, cfg *types.PipelineConfig) {
				writeInput(t, cfg.Inputs.PromisingTech.Path, "기술명\n배터리\n")
			},
			wantErr:   source.ErrMissingColumn,
			wantInput: InputPromisingTech,
			wantMsg:   "'발명의 명칭' 열이 없습니다",
		},
		{
			name: "missing expenditure file",
			mutate: func(t *testing.T, cfg *types.PipelineConfig) {
				require.NoError(t, os.Remove(cfg.Inputs.Expenditure.Path))
			},
			wantErr:   source.ErrMissingInputFile,
			wantInput: InputExpenditure,
			wantMsg:   "expenditure.CSV 파일을 찾을 수 없습니다",
		},
		{
			name: "undecodable promising tech file",
			mutate: func(t *testing.T, cfg *types.PipelineConfig) {
				require.NoError(t, os.WriteFile(cfg.Inputs.PromisingTech.Path, []byte("\xB0\n"), 0o644))
			},
			wantErr:   source.ErrEncoding,
			wantInput: InputPromisingTech,
			wantMsg:   "promising.csv 파일의 인코딩을 읽을 수 없습니다",
		},
		{
			name: "undecodable expenditure file",
			mutate: func(t *testing.T, cfg *types.PipelineConfig) {
				require.NoError(t, os.WriteFile(cfg.Inputs.Expenditure.Path, []byte("\xB0\n"), 0o644))
			},
			wantErr:   source.ErrEncoding,
			wantInput: InputExpenditure,
			wantMsg:   "expenditure.CSV 파일을 처리하는 중 오류가 발생했습니다. 인코딩이나 데이터 형식을 확인해주세요.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(t, &cfg)
			var out bytes.Buffer

			_, err := New(cfg, zap.NewNop(), &out).Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, UserMessage(err), tt.wantMsg)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.wantInput, le.Input)
			assert.Empty(t, out.String())

			_, statErr := os.Stat(cfg.Output.Path)
			assert.True(t, os.IsNotExist(statErr), "output must not be created")
		})
	}
}

func TestRunMissingInputKeepsPreviousOutput(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Output.Path, []byte("previous"), 0o644))
	require.NoError(t, os.Remove(cfg.Inputs.Keywords.Path))

	_, err := New(cfg, nil, &bytes.Buffer{}).Run(context.Background())
	require.ErrorIs(t, err, source.ErrMissingInputFile)

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestRunWriteFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Path = filepath.Join(t.TempDir(), "no-such-dir", "data.json")

	_, err := New(cfg, nil, &bytes.Buffer{}).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrWriteFailure)
	assert.Equal(t, "오류: "+cfg.Output.Path+" 파일을 저장하는 데 실패했습니다.", UserMessage(err))
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Thresholds = types.ThresholdConfig{Mature: 5, Growth: 5}

	_, err := New(cfg, nil, &bytes.Buffer{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, UserMessage(err), "thresholds.growth")
}

func TestRunCanceled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg, nil, &bytes.Buffer{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// --- optional exports ---

func TestRunArchivesAndExportsMetrics(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cfg.Archive.DBPath = filepath.Join(dir, "index", "techlife.db")
	cfg.Metrics.Textfile = filepath.Join(dir, "techlife.prom")

	res, err := New(cfg, zap.NewNop(), &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)

	store, err := archive.Open(cfg.Archive.DBPath)
	require.NoError(t, err)
	defer store.Close()
	hist, err := store.History(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, res.RunID, hist[0].RunID)
	assert.Equal(t, types.BucketMediumRisk, hist[0].Bucket)

	prom, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `techlife_technologies{stage="early"} 1`)
	assert.Contains(t, string(prom), `techlife_input_rows{source="keywords"} 7`)
}

func TestRunArchiveFailureIsWarning(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.Archive.DBPath = filepath.Join(blocker, "techlife.db")

	core, logs := observer.New(zapcore.DebugLevel)
	res, err := New(cfg, zap.New(core), &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.RunID)
	assert.Equal(t, 1, logs.FilterMessage("archive unavailable").Len())

	_, statErr := os.Stat(cfg.Output.Path)
	assert.NoError(t, statErr)
}

func TestUserMessageFallback(t *testing.T) {
	assert.Equal(t, "오류: context canceled", UserMessage(context.Canceled))
}
