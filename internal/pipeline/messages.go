// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"

	"github.com/pdiddy/techlife/internal/report"
	"github.com/pdiddy/techlife/internal/source"
)

// UserMessage renders err as the message printed to the operator.
// Decoding failures of the expenditure table print its data-format message.
func UserMessage(err error) string {
	var fe *source.FileError
	if errors.As(err, &fe) {
		var le *LoadError
		fromExpenditure := errors.As(err, &le) && le.Input == InputExpenditure
		switch {
		case errors.Is(err, source.ErrMissingInputFile):
			return fmt.Sprintf("오류: %s 파일을 찾을 수 없습니다. 경로를 확인해주세요.", fe.Path)
		case errors.Is(err, source.ErrEncoding) && !fromExpenditure:
			return fmt.Sprintf("오류: %s 파일의 인코딩을 읽을 수 없습니다. 'utf-8' 또는 'cp949' 이외의 인코딩일 수 있습니다.", fe.Path)
		case errors.Is(err, source.ErrMissingColumn):
			return fmt.Sprintf("오류: %s 파일에 '%s' 열이 없습니다.", fe.Path, fe.Detail)
		case errors.Is(err, source.ErrMalformedNumber):
			return fmt.Sprintf("오류: %s 파일을 처리하는 중 오류가 발생했습니다. 인코딩이나 데이터 형식을 확인해주세요. (%d행: %q)",
				fe.Path, fe.Row, fe.Detail)
		default:
			return fmt.Sprintf("오류: %s 파일을 처리하는 중 오류가 발생했습니다. 인코딩이나 데이터 형식을 확인해주세요.", fe.Path)
		}
	}

	var we *report.WriteError
	if errors.As(err, &we) {
		return fmt.Sprintf("오류: %s 파일을 저장하는 데 실패했습니다.", we.Path)
	}

	return fmt.Sprintf("오류: %v", err)
}
