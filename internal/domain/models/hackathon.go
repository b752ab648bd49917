package models

// Hackathon — запись о хакатоне. Создаётся и обновляется только импортёром,
// бот её не изменяет.
type Hackathon struct {
	ID           int64
	Name         string
	Prizes       string
	Registration string
	Duration     string
	Link         string
	TelegramChat string
	Comments     string
}

// HackathonWithCount — хакатон вместе с числом участников от сообщества.
// Счётчик вычисляется запросом и не хранится в базе.
type HackathonWithCount struct {
	Hackathon

	ParticipantCount int
}

// Participant — участник хакатона в том виде, в котором его видят другие:
// ник и текст анкеты.
type Participant struct {
	Username string
	Profile  string
}
