package memory

import (
	"context"

	"github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

type ParticipationRepository struct {
	store *Store
}

func NewParticipationRepository(store *Store) *ParticipationRepository {
	return &ParticipationRepository{store: store}
}

func (r *ParticipationRepository) Add(_ context.Context, userID int64, username string, hackathonID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.hackathons[hackathonID]; !exists {
		return &errors.ErrHackathonNotFound{HackathonID: hackathonID}
	}

	if _, exists := r.store.users[userID]; !exists {
		r.store.users[userID] = &models.User{ID: userID, Username: username}
	}

	joined := r.store.participations[userID]
	if joined == nil {
		joined = make(map[int64]bool)
		r.store.participations[userID] = joined
	}

	if joined[hackathonID] {
		return &errors.ErrAlreadyParticipating{UserID: userID, HackathonID: hackathonID}
	}

	joined[hackathonID] = true

	return nil
}

func (r *ParticipationRepository) Exists(_ context.Context, userID, hackathonID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.participations[userID][hackathonID], nil
}

func (r *ParticipationRepository) FindParticipants(_ context.Context, hackathonID int64) ([]*models.Participant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var participants []*models.Participant

	for _, userID := range r.store.sortedUserIDs() {
		if !r.store.participations[userID][hackathonID] {
			continue
		}

		user := r.store.users[userID]
		participants = append(participants, &models.Participant{
			Username: user.Username,
			Profile:  user.Profile,
		})
	}

	return participants, nil
}
