package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusClassification(t *testing.T) {
	tests := []struct {
		status RunStatus
		done   bool
		failed bool
	}{
		{RunDone, true, false},
		{RunStatus("success"), true, false},
		{RunFail, false, true},
		{RunStatus("failed"), false, true},
		{RunStatus("error"), false, true},
		{RunRunning, false, false},
		{RunUnstart, false, false},
		{RunCancel, false, false},
		{RunStatus("SOMETHING_NEW"), false, false},
		{RunStatus(""), false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.done, tt.status.Done(), "Done() for %q", tt.status)
		assert.Equal(t, tt.failed, tt.status.Failed(), "Failed() for %q", tt.status)
	}
}

func TestDefaultParserConfig(t *testing.T) {
	pc := DefaultParserConfig()
	assert.Equal(t, 128, pc.ChunkTokenNum)
	assert.Equal(t, "DeepDOC", pc.LayoutRecognize)
	assert.False(t, pc.HTML4Excel)
	assert.False(t, pc.Raptor.UseRaptor)
	assert.Equal(t, 256, pc.Raptor.MaxToken)
	assert.Equal(t, 64, pc.Raptor.MaxCluster)
}
