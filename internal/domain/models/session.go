package models

import "time"

// Session — состояние диалога одного пользователя. Живёт только в памяти
// процесса и сбрасывается при рестарте: канонические данные (анкеты, хакатоны,
// участия) хранятся в базе.
//
// Индексы имеют смысл только пока соответствующий кэшированный список
// непустой и был заполнен последним действием просмотра.
type Session struct {
	UserID int64

	CurrentHackathon int
	Hackathons       []*HackathonWithCount
	// MyHackathonsView — true, если кэшированный список хакатонов получен
	// из "моих хакатонов", а не из доступных.
	MyHackathonsView bool

	CurrentParticipant int
	Participants       []*Participant

	AwaitingProfile bool

	LastSeen time.Time
}

// ResetBrowsing сбрасывает позиции просмотра и кэшированные списки,
// не трогая флаг ожидания анкеты.
func (s *Session) ResetBrowsing() {
	s.CurrentHackathon = 0
	s.Hackathons = nil
	s.MyHackathonsView = false
	s.CurrentParticipant = 0
	s.Participants = nil
}
