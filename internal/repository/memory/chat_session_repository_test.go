package memory

import (
	"testing"

	"pdf-insight-be/pkg/chatsession"
	"pdf-insight-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewChatSessionRepository()

	session := chatsession.NewSession("user@example.com", uuid.New(), "doc.pdf", store.PdfAnalysis{Summary: "s"})
	repo.Save(session)

	got, found := repo.Get(session.ID.String())
	require.True(t, found)
	assert.Same(t, session, got)
}

func TestChatSessionRepositoryMissingKey(t *testing.T) {
	repo := NewChatSessionRepository()

	_, found := repo.Get(uuid.New().String())
	assert.False(t, found)
}

func TestChatSessionRepositoryDelete(t *testing.T) {
	repo := NewChatSessionRepository()

	session := chatsession.NewSession("user@example.com", uuid.New(), "doc.pdf", store.PdfAnalysis{})
	repo.Save(session)
	repo.Delete(session.ID.String())

	_, found := repo.Get(session.ID.String())
	assert.False(t, found)
}
