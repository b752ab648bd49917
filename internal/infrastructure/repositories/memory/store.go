package memory

import (
	"sort"
	"sync"

	"github.com/hack-community/hackmate/internal/domain/models"
)

// Store — общее in-memory хранилище трёх таблиц. Репозитории этого пакета
// работают поверх одного Store, иначе запросы с подсчётом участников
// были бы невозможны.
type Store struct {
	mu sync.RWMutex

	users           map[int64]*models.User
	hackathons      map[int64]*models.Hackathon
	nextHackathonID int64
	// participations: userID -> множество hackathonID.
	participations map[int64]map[int64]bool
}

func NewStore() *Store {
	return &Store{
		users:           make(map[int64]*models.User),
		hackathons:      make(map[int64]*models.Hackathon),
		nextHackathonID: 1,
		participations:  make(map[int64]map[int64]bool),
	}
}

func (s *Store) sortedHackathonIDs() []int64 {
	ids := make([]int64, 0, len(s.hackathons))
	for id := range s.hackathons {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (s *Store) sortedUserIDs() []int64 {
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (s *Store) participantCount(hackathonID int64) int {
	count := 0

	for _, joined := range s.participations {
		if joined[hackathonID] {
			count++
		}
	}

	return count
}
