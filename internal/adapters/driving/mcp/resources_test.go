package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleHistoryResource(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	history := &mockHistory{jobs: []domain.JobRecord{
		{ID: "job2", Kind: domain.JobPack, Target: "out.zip", Status: domain.JobSucceeded,
			StartedAt: started, FinishedAt: started.Add(time.Second)},
		{ID: "job1", Kind: domain.JobScale, Target: "femur.obj", Status: domain.JobRunning, StartedAt: started},
	}}
	server, err := NewServer(&Ports{Scaler: &mockScaler{}, History: history})
	require.NoError(t, err)

	t.Run("all jobs", func(t *testing.T) {
		result, err := server.handleHistoryResource(context.Background(), readRequest("scanprep://history"))
		require.NoError(t, err)

		var jobs []jobInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &jobs))
		require.Len(t, jobs, 2)
		assert.Equal(t, "job2", jobs[0].ID)
		assert.Equal(t, "2026-03-01T10:00:01Z", jobs[0].FinishedAt)
		assert.Empty(t, jobs[1].FinishedAt)
	})

	t.Run("filtered by kind", func(t *testing.T) {
		result, err := server.handleHistoryResource(context.Background(), readRequest("scanprep://history/scale"))
		require.NoError(t, err)

		var jobs []jobInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &jobs))
		require.Len(t, jobs, 1)
		assert.Equal(t, "job1", jobs[0].ID)
	})

	t.Run("unknown uri", func(t *testing.T) {
		_, err := server.handleHistoryResource(context.Background(), readRequest("scanprep://history/a/b"))
		assert.Error(t, err)
	})
}

func TestServer_handleHistoryResource_NoHistory(t *testing.T) {
	server, err := NewServer(&Ports{Scaler: &mockScaler{}})
	require.NoError(t, err)

	result, err := server.handleHistoryResource(context.Background(), readRequest("scanprep://history"))
	require.NoError(t, err)
	assert.Equal(t, "[]", result.Contents[0].Text)
}

func TestServer_handleArtifactResource(t *testing.T) {
	pipeline := domain.NewPipelineContext("")
	server, err := NewServer(&Ports{Scaler: &mockScaler{}, Pipeline: pipeline})
	require.NoError(t, err)

	_, err = server.handleArtifactResource(context.Background(), readRequest("scanprep://artifact"))
	assert.Error(t, err)

	pipeline.SetLastArtifact("/data/femur.obj")
	result, err := server.handleArtifactResource(context.Background(), readRequest("scanprep://artifact"))
	require.NoError(t, err)
	assert.Equal(t, "/data/femur.obj", result.Contents[0].Text)
}

func TestExtractKind(t *testing.T) {
	tests := []struct {
		uri    string
		kind   string
		wantOK bool
	}{
		{uri: "scanprep://history", kind: "", wantOK: true},
		{uri: "scanprep://history/pack", kind: "pack", wantOK: true},
		{uri: "scanprep://history/", wantOK: false},
		{uri: "scanprep://other", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			kind, ok := extractKind(tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
