package service

import (
	"github.com/hack-community/hackmate/internal/domain/models"
)

const mainMenuText = `Главное меню:

• Мой профиль - создайте или отредактируйте свой профиль участника
• Просмотр хакатонов - узнайте о доступных хакатонах и присоединяйтесь к ним
• Мои хакатоны - просмотрите хакатоны, в которых вы участвуете
• Поиск участников - найдите участников для вашей команды`

// MainMenuReply строит главное меню. Оно отправляется после приветствия,
// после сохранения анкеты и после любого восстановления от ошибки.
func MainMenuReply() *models.Reply {
	return models.NewReply(mainMenuText,
		models.Row(models.Button{Label: "Мой профиль", Token: models.TokenViewProfile}),
		models.Row(models.Button{Label: "Просмотр хакатонов", Token: models.TokenViewHackathons}),
		models.Row(models.Button{Label: "Мои хакатоны", Token: models.TokenMyHackathons}),
		models.Row(models.Button{Label: "Поиск участников", Token: models.TokenSearchParticipants}),
	)
}

func mainMenuButton() models.Button {
	return models.Button{Label: "Вернуться в меню", Token: models.TokenMainMenu}
}
