package memory

import (
	"time"

	"pdf-insight-be/pkg/chatsession"

	gocache "github.com/patrickmn/go-cache"
)

// ChatSessionRepository keeps live chat sessions in process memory. Sessions
// are conversational scratch state; when one expires the client simply starts
// a new one from the stored analysis.
type ChatSessionRepository struct {
	cache *gocache.Cache
}

func NewChatSessionRepository() *ChatSessionRepository {
	return &ChatSessionRepository{
		cache: gocache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *ChatSessionRepository) Save(session *chatsession.Session) {
	r.cache.Set(session.ID.String(), session, gocache.DefaultExpiration)
}

func (r *ChatSessionRepository) Get(sessionID string) (*chatsession.Session, bool) {
	v, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	session, ok := v.(*chatsession.Session)
	return session, ok
}

func (r *ChatSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
