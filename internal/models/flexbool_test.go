package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mait00/legaltrackswift-sub002/internal/models"
)

func TestFlexBool_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "bool true", in: `true`, want: true},
		{name: "bool false", in: `false`, want: false},
		{name: "int one", in: `1`, want: true},
		{name: "int zero", in: `0`, want: false},
		{name: "string true", in: `"true"`, want: true},
		{name: "string one", in: `"1"`, want: true},
		{name: "string false", in: `"false"`, want: false},
		{name: "unknown string", in: `"maybe"`, want: false},
		{name: "null", in: `null`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f models.FlexBool
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f.Bool())
		})
	}
}

func TestCaseRecord_DecodesMixedIsSou(t *testing.T) {
	raw := `[
		{"id": 1, "value": "А40-1/2024", "is_sou": false},
		{"id": 2, "value": "2-100/2024", "is_sou": "1"},
		{"id": 3, "value": "2-200/2024", "is_sou": 1}
	]`
	var cases []models.CaseRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &cases))

	assert.False(t, cases[0].IsGeneralJurisdiction())
	assert.True(t, cases[1].IsGeneralJurisdiction())
	assert.True(t, cases[2].IsGeneralJurisdiction())
}
