package models

// User — участник сообщества. ID совпадает с Telegram ID пользователя.
type User struct {
	ID       int64
	Username string
	Profile  string
}

// HasProfile сообщает, заполнил ли пользователь анкету.
func (u *User) HasProfile() bool {
	return u.Profile != ""
}
