package persistence

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/silosim/silotherm/internal/analysis"
	"github.com/silosim/silotherm/internal/simulation"
)

func testPersistence(t *testing.T) Persistence {
	dbPath := filepath.Join(t.TempDir(), "silotherm.db")
	p := NewPersistence(dbPath)
	assert.NoError(t, p.Init())
	return p
}

func TestPersistence_SaveReport(t *testing.T) {
	// GIVEN
	p := testPersistence(t)
	scenarioId := "baseline"
	report := analysis.Report{
		RiseTime:         1630000,
		SettlingTime:     2900000,
		OvershootPercent: 0,
		SteadyStateError: 9.375,
	}

	// WHEN
	err := p.SaveReport(scenarioId, report)

	// THEN
	assert.NoError(t, err)

	loaded, err := p.LoadReport(scenarioId)
	assert.NoError(t, err)
	assert.Equal(t, report, *loaded)
}

func TestPersistence_LoadReport_MissingKey(t *testing.T) {
	// GIVEN
	p := testPersistence(t)

	// WHEN
	report, err := p.LoadReport("does-not-exist")

	// THEN
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestPersistence_DeleteReport(t *testing.T) {
	// GIVEN
	p := testPersistence(t)
	scenarioId := "baseline"
	assert.NoError(t, p.SaveReport(scenarioId, analysis.Report{RiseTime: 1}))

	// WHEN
	err := p.DeleteReport(scenarioId)

	// THEN
	assert.NoError(t, err)
	_, err = p.LoadReport(scenarioId)
	assert.Error(t, err)
}

func TestPersistence_SaveTrajectory(t *testing.T) {
	// GIVEN
	p := testPersistence(t)
	scenarioId := "baseline"
	trajectory := simulation.Trajectory{
		{Time: 1800, Output: 0, Action: 0.6, Error: 15},
		{Time: 3600, Output: -0.3, Action: 0.612, Error: 15.3},
	}

	// WHEN
	err := p.SaveTrajectory(scenarioId, trajectory)

	// THEN
	assert.NoError(t, err)

	loaded, err := p.LoadTrajectory(scenarioId)
	assert.NoError(t, err)
	assert.Equal(t, trajectory, loaded)
}

func TestPersistence_ReportSurvivesInfiniteRiseTime(t *testing.T) {
	// GIVEN
	p := testPersistence(t)
	scenarioId := "sluggish"
	report := analysis.Report{
		RiseTime:     math.Inf(1),
		SettlingTime: math.Inf(1),
	}

	// WHEN
	err := p.SaveReport(scenarioId, report)

	// THEN
	assert.NoError(t, err)

	loaded, err := p.LoadReport(scenarioId)
	assert.NoError(t, err)
	assert.True(t, math.IsInf(loaded.RiseTime, 1))
	assert.True(t, math.IsInf(loaded.SettlingTime, 1))
}
