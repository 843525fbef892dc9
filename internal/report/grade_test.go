package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aoineco/openclaw-sec/internal/types"
)

func TestGrade(t *testing.T) {
	warn := types.Finding{Severity: types.SevWarn}
	block := types.Finding{Severity: types.SevBlock}
	other := types.Finding{Severity: "info"}

	cases := []struct {
		name string
		in   []types.Finding
		want types.Grade
		exit int
	}{
		{"empty", nil, types.GradePass, 0},
		{"unknown severity only", []types.Finding{other}, types.GradePass, 0},
		{"warn", []types.Finding{other, warn}, types.GradeWarn, 1},
		{"block wins", []types.Finding{warn, block, warn}, types.GradeBlock, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Grade(tc.in)
			assert.Equal(t, tc.want, g)
			assert.Equal(t, tc.exit, g.ExitCode())
		})
	}
}
