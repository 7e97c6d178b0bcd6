// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/techlife/pkg/types"
)

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "techlife.prom")
	snap := Snapshot{
		InputRows:    map[string]int{"keywords": 7, "promising_tech": 2, "expenditure": 3},
		Technologies: map[types.Stage]int{types.StageGrowth: 1, types.StageEarly: 1},
		Finished:     time.Unix(1724630400, 0),
	}

	require.NoError(t, WriteTextfile(path, snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `techlife_input_rows{source="keywords"} 7`)
	assert.Contains(t, out, `techlife_input_rows{source="expenditure"} 3`)
	assert.Contains(t, out, `techlife_technologies{stage="growth"} 1`)
	assert.Contains(t, out, `techlife_technologies{stage="mature"} 0`)
	assert.Contains(t, out, "techlife_last_success_timestamp_seconds 1.7246304e+09")
}

func TestRegistryGather(t *testing.T) {
	reg := Registry(Snapshot{Finished: time.Now()})

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["techlife_technologies"])
	assert.True(t, names["techlife_last_success_timestamp_seconds"])
}
