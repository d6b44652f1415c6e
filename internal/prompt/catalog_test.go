package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, opt := range Catalog {
		assert.False(t, seen[opt.ID], "duplicate option id %q", opt.ID)
		seen[opt.ID] = true
	}
}

func TestInstructionFor(t *testing.T) {
	instruction, ok := InstructionFor("genSHN")
	require.True(t, ok)
	assert.Contains(t, instruction, "SHN")

	_, ok = InstructionFor("notARealOption")
	assert.False(t, ok)
}

func TestCatalog_EveryInstructionIsAFragmentLine(t *testing.T) {
	for _, opt := range Catalog {
		assert.True(t, strings.HasPrefix(opt.Instruction, "- "),
			"option %q instruction should be a list fragment", opt.ID)
	}
}

func TestByProblemBlock_Refinements(t *testing.T) {
	tests := []struct {
		name     string
		shn      bool
		vshn     bool
		contains string
		excludes string
	}{
		{
			name:     "no shorthand",
			contains: "General Rules for 'By Problem' A&P:",
			excludes: "IMPORTANT FOR",
		},
		{
			name:     "shn only",
			shn:      true,
			contains: "IMPORTANT FOR SHN + By Problem",
			excludes: "IMPORTANT FOR VSHN",
		},
		{
			name:     "vshn only",
			vshn:     true,
			contains: "IMPORTANT FOR VSHN + By Problem",
			excludes: "IMPORTANT FOR SHN",
		},
		{
			name:     "vshn wins over shn",
			shn:      true,
			vshn:     true,
			contains: "IMPORTANT FOR VSHN + By Problem",
			excludes: "IMPORTANT FOR SHN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := strings.Join(ByProblemBlock(tt.shn, tt.vshn), "\n")
			assert.Contains(t, block, tt.contains)
			assert.NotContains(t, block, tt.excludes)
		})
	}
}
