package memory

import (
	"context"

	"github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

type HackathonRepository struct {
	store *Store
}

func NewHackathonRepository(store *Store) *HackathonRepository {
	return &HackathonRepository{store: store}
}

func (r *HackathonRepository) FindUnjoined(_ context.Context, userID int64) ([]*models.HackathonWithCount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	joined := r.store.participations[userID]

	var hackathons []*models.HackathonWithCount

	for _, id := range r.store.sortedHackathonIDs() {
		if joined[id] {
			continue
		}

		hackathons = append(hackathons, &models.HackathonWithCount{
			Hackathon:        *r.store.hackathons[id],
			ParticipantCount: r.store.participantCount(id),
		})
	}

	return hackathons, nil
}

func (r *HackathonRepository) FindJoined(_ context.Context, userID int64) ([]*models.HackathonWithCount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	joined := r.store.participations[userID]

	var hackathons []*models.HackathonWithCount

	for _, id := range r.store.sortedHackathonIDs() {
		if !joined[id] {
			continue
		}

		hackathons = append(hackathons, &models.HackathonWithCount{
			Hackathon:        *r.store.hackathons[id],
			ParticipantCount: r.store.participantCount(id),
		})
	}

	return hackathons, nil
}

func (r *HackathonRepository) FindAll(_ context.Context) ([]*models.Hackathon, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var hackathons []*models.Hackathon

	for _, id := range r.store.sortedHackathonIDs() {
		h := *r.store.hackathons[id]
		hackathons = append(hackathons, &h)
	}

	return hackathons, nil
}

func (r *HackathonRepository) FindByID(_ context.Context, id int64) (*models.Hackathon, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	h, exists := r.store.hackathons[id]
	if !exists {
		return nil, &errors.ErrHackathonNotFound{HackathonID: id}
	}

	found := *h

	return &found, nil
}

func (r *HackathonRepository) Insert(_ context.Context, h *models.Hackathon) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	h.ID = r.store.nextHackathonID
	r.store.nextHackathonID++

	stored := *h
	r.store.hackathons[h.ID] = &stored

	return nil
}

func (r *HackathonRepository) UpdateByName(_ context.Context, h *models.Hackathon) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, stored := range r.store.hackathons {
		if stored.Name == h.Name {
			stored.Prizes = h.Prizes
			stored.Registration = h.Registration
			stored.Duration = h.Duration
			stored.Link = h.Link
			stored.TelegramChat = h.TelegramChat
			stored.Comments = h.Comments

			h.ID = stored.ID

			return true, nil
		}
	}

	return false, nil
}

func (r *HackathonRepository) DeleteAll(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.hackathons = make(map[int64]*models.Hackathon)
	r.store.nextHackathonID = 1
	r.store.participations = make(map[int64]map[int64]bool)

	return nil
}
