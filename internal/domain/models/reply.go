package models

// Button — кнопка под сообщением. Token возвращается транспортом как
// callback-событие при нажатии. Если задан URL, кнопка ведёт по ссылке
// и Token игнорируется.
type Button struct {
	Label string
	Token string
	URL   string
}

// Reply — ответ бота: текст и упорядоченные ряды кнопок.
type Reply struct {
	Text    string
	Buttons [][]Button

	// Toast — короткий текст для всплывающего ответа на callback,
	// без отдельного сообщения.
	Toast string

	// Next — следующий ответ, отправляемый сразу за этим
	// (например, главное меню после приветствия).
	Next *Reply
}

func NewReply(text string, rows ...[]Button) *Reply {
	return &Reply{Text: text, Buttons: rows}
}

func Row(buttons ...Button) []Button {
	return buttons
}
