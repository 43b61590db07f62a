package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStageStatus(t *testing.T) {
	assert.Equal(t, StageStatusCompleted, NormalizeStageStatus("COMPLETED"))
	assert.Equal(t, StageStatusCompleted, NormalizeStageStatus(" completed "))
	assert.Equal(t, StageStatusPending, NormalizeStageStatus(""))
	assert.Equal(t, StageStatusPending, NormalizeStageStatus("Pending"))
	assert.Equal(t, StageStatusInProgress, NormalizeStageStatus("in_progress"))
	assert.Equal(t, StageStatusInProgress, NormalizeStageStatus("working on it"))
}

func TestIsStageCompleted(t *testing.T) {
	assert.True(t, IsStageCompleted("Completed"))
	assert.True(t, IsStageCompleted(" COMPLETED "))
	assert.False(t, IsStageCompleted("pending"))
}
