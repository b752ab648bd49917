// Package session хранит состояние диалогов в памяти процесса.
// Транспорт сериализует обновления в рамках одного чата, поэтому поля
// конкретной сессии изменяются без дополнительной синхронизации;
// мьютекс защищает только саму карту сессий.
package session

import (
	"sync"
	"time"

	"github.com/hack-community/hackmate/internal/domain/models"
)

type Store struct {
	sessions map[int64]*models.Session
	mu       sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*models.Session),
	}
}

// Get возвращает сессию пользователя, создавая её при первом обращении,
// и отмечает время последней активности.
func (s *Store) Get(userID int64) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[userID]
	if !exists {
		sess = &models.Session{UserID: userID}
		s.sessions[userID] = sess
	}

	sess.LastSeen = time.Now()

	return sess
}

// Reset сбрасывает состояние просмотра и флаг ожидания анкеты.
func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[userID]
	if !exists {
		return
	}

	sess.ResetBrowsing()
	sess.AwaitingProfile = false
}

// EvictIdle удаляет сессии, неактивные дольше ttl, и возвращает число
// удалённых.
func (s *Store) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0

	for userID, sess := range s.sessions {
		if time.Since(sess.LastSeen) > ttl {
			delete(s.sessions, userID)
			evicted++
		}
	}

	return evicted
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
