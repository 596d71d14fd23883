package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	s, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8080, s.Port)
	assert.NotEmpty(t, s.SECContactEmail)
}

func TestFromEnv_PortOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	s, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9090, s.Port)
}

func TestFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestValidate_PortRange(t *testing.T) {
	s := &Settings{Port: 0}
	assert.Error(t, s.Validate())
	s.Port = 70000
	assert.Error(t, s.Validate())
	s.Port = 8080
	assert.NoError(t, s.Validate())
}

func TestScorecardKey_Fallback(t *testing.T) {
	s := &Settings{DataGovKey: "datagov"}
	assert.Equal(t, "datagov", s.ScorecardKey())

	s.CollegeScorecardKey = "scorecard"
	assert.Equal(t, "scorecard", s.ScorecardKey())
}
