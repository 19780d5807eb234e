package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dropit/internal/repository"
)

func TestArchivePipelineNeedsRepository(t *testing.T) {
	publisher, archiveWorker := newArchivePipeline(nil, nil, "dropit.message.archive", zap.NewNop())
	assert.Nil(t, publisher)
	assert.Nil(t, archiveWorker)

	publisher, archiveWorker = newArchivePipeline(nil, repository.NewArchiveRepository(nil), "dropit.message.archive", zap.NewNop())
	require.NotNil(t, publisher)
	require.NotNil(t, archiveWorker)
}
