// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lifecycle

import (
	"fmt"

	"github.com/pdiddy/techlife/pkg/types"
)

var templates = map[types.Stage]string{
	types.StageMature: "기술 성숙 단계로, 시장 점유율 확보를 위한 전략이 필요한 시점입니다. 관련 투자금액이 높고 시장 규모가 안정적입니다. (%s)",
	types.StageGrowth: "기술 성장 단계로, 시장 확대가 빠르게 이루어지고 있습니다. 혁신적인 기술이 지속적으로 개발되고 있으며, 관련 투자도 활발합니다. (%s)",
	types.StageEarly:  "기술 초기 단계로, 아직 상용화되지 않았지만 잠재력이 큰 기술입니다. 관련 연구가 활발히 진행 중이며, 미래 가치가 높게 평가됩니다. (%s)",
}

// Describe renders the stage sentence with the technology name appended in
// parentheses.
func Describe(stage types.Stage, name string) string {
	tmpl, ok := templates[stage]
	if !ok {
		tmpl = templates[types.StageEarly]
	}
	return fmt.Sprintf(tmpl, name)
}
