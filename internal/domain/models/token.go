package models

import (
	"strconv"
	"strings"
)

// Action — действие, закодированное в callback-токене кнопки.
type Action int

const (
	ActionUnknown Action = iota
	ActionViewProfile
	ActionEditProfile
	ActionCreateProfile
	ActionViewHackathons
	ActionMyHackathons
	ActionSearchParticipants
	ActionMainMenu
	ActionPrevHackathon
	ActionNextHackathon
	ActionPrevParticipant
	ActionNextParticipant
	ActionParticipate
	ActionLookForMembers
)

// Токены без параметров.
const (
	TokenViewProfile        = "view_profile"
	TokenEditProfile        = "edit_profile"
	TokenCreateProfile      = "create_profile"
	TokenViewHackathons     = "view_hackathons"
	TokenMyHackathons       = "my_hackathons"
	TokenSearchParticipants = "search_participants"
	TokenMainMenu           = "main_menu"
	TokenPrevHackathon      = "prev_hackathon"
	TokenNextHackathon      = "next_hackathon"
	TokenPrevParticipant    = "prev_participant"
	TokenNextParticipant    = "next_participant"
)

// Префиксы параметризованных токенов вида <prefix><decimal id>.
const (
	prefixParticipate    = "participate_"
	prefixLookForMembers = "look_for_members_"
)

var bareTokens = map[string]Action{
	TokenViewProfile:        ActionViewProfile,
	TokenEditProfile:        ActionEditProfile,
	TokenCreateProfile:      ActionCreateProfile,
	TokenViewHackathons:     ActionViewHackathons,
	TokenMyHackathons:       ActionMyHackathons,
	TokenSearchParticipants: ActionSearchParticipants,
	TokenMainMenu:           ActionMainMenu,
	TokenPrevHackathon:      ActionPrevHackathon,
	TokenNextHackathon:      ActionNextHackathon,
	TokenPrevParticipant:    ActionPrevParticipant,
	TokenNextParticipant:    ActionNextParticipant,
}

// Token — разобранный callback-токен: действие и, для параметризованных
// действий, ID хакатона.
type Token struct {
	Action      Action
	HackathonID int64
}

// ParseToken разбирает строку токена. Неизвестные и некорректно
// сформированные токены дают ActionUnknown, а не ошибку: диспетчер
// молча игнорирует их.
func ParseToken(data string) Token {
	if action, ok := bareTokens[data]; ok {
		return Token{Action: action}
	}

	if id, ok := parseID(data, prefixParticipate); ok {
		return Token{Action: ActionParticipate, HackathonID: id}
	}

	if id, ok := parseID(data, prefixLookForMembers); ok {
		return Token{Action: ActionLookForMembers, HackathonID: id}
	}

	return Token{Action: ActionUnknown}
}

func parseID(data, prefix string) (int64, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}

	id, err := strconv.ParseInt(data[len(prefix):], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// ParticipateToken кодирует токен регистрации на хакатон.
func ParticipateToken(hackathonID int64) string {
	return prefixParticipate + strconv.FormatInt(hackathonID, 10)
}

// LookForMembersToken кодирует токен просмотра участников хакатона.
func LookForMembersToken(hackathonID int64) string {
	return prefixLookForMembers + strconv.FormatInt(hackathonID, 10)
}
