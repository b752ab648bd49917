package clients

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hack-community/hackmate/internal/domain/models"
)

func TestBuildMarkup(t *testing.T) {
	reply := models.NewReply("текст",
		models.Row(
			models.Button{Label: "Предыдущий", Token: "prev_hackathon"},
			models.Button{Label: "Следующий", Token: "next_hackathon"},
		),
		models.Row(models.Button{Label: "Сообщество", URL: "https://t.me/+test"}),
	)

	markup := buildMarkup(reply)
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)

	first := markup.InlineKeyboard[0]
	require.Len(t, first, 2)
	assert.Equal(t, "Предыдущий", first[0].Text)
	require.NotNil(t, first[0].CallbackData)
	assert.Equal(t, "prev_hackathon", *first[0].CallbackData)

	link := markup.InlineKeyboard[1][0]
	require.NotNil(t, link.URL)
	assert.Equal(t, "https://t.me/+test", *link.URL)
	assert.Nil(t, link.CallbackData)
}

func TestBuildMarkup_NoButtons(t *testing.T) {
	assert.Nil(t, buildMarkup(models.NewReply("только текст")))
}

func TestUnchanged_SkipsIdenticalRender(t *testing.T) {
	client := &TelegramClient{rendered: make(map[int64]renderedMessage)}

	reply := models.NewReply("карточка",
		models.Row(models.Button{Label: "Меню", Token: "main_menu"}),
	)
	markup := buildMarkup(reply)

	assert.False(t, client.unchanged(1, 10, reply.Text, markup))

	client.remember(1, 10, reply.Text, markup)

	assert.True(t, client.unchanged(1, 10, reply.Text, markup))

	// Другое сообщение, другой текст или другая клавиатура — правка нужна.
	assert.False(t, client.unchanged(1, 11, reply.Text, markup))
	assert.False(t, client.unchanged(1, 10, "другой текст", markup))

	other := buildMarkup(models.NewReply("карточка",
		models.Row(models.Button{Label: "Меню", Token: "view_profile"}),
	))
	assert.False(t, client.unchanged(1, 10, reply.Text, other))
}

func TestMarkupKey_DistinguishesLayout(t *testing.T) {
	oneRow := buildMarkup(models.NewReply("",
		models.Row(
			models.Button{Label: "A", Token: "a"},
			models.Button{Label: "B", Token: "b"},
		),
	))
	twoRows := buildMarkup(models.NewReply("",
		models.Row(models.Button{Label: "A", Token: "a"}),
		models.Row(models.Button{Label: "B", Token: "b"}),
	))

	assert.NotEqual(t, markupKey(oneRow), markupKey(twoRows))
	assert.Equal(t, "", markupKey(nil))
}

func TestIsNotModified(t *testing.T) {
	assert.True(t, isNotModified(errors.New("Bad Request: message is not modified")))
	assert.False(t, isNotModified(errors.New("Bad Request: chat not found")))
	assert.False(t, isNotModified(nil))
}
