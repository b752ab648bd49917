package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/importer"
)

const csvHeader = "Название,Призы,Регистрация,Длительность,Ссылка,Telegram чат,Комментарии\n"

func TestParseCSV(t *testing.T) {
	data := csvHeader +
		"Alpha,100 000 ₽,до 1 марта,48 часов,https://example.com/a,@alpha_chat,онлайн\n" +
		"Beta,,,,,,\n"

	hackathons, err := importer.ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, hackathons, 2)

	assert.Equal(t, "Alpha", hackathons[0].Name)
	assert.Equal(t, "100 000 ₽", hackathons[0].Prizes)
	assert.Equal(t, "до 1 марта", hackathons[0].Registration)
	assert.Equal(t, "48 часов", hackathons[0].Duration)
	assert.Equal(t, "https://example.com/a", hackathons[0].Link)
	assert.Equal(t, "@alpha_chat", hackathons[0].TelegramChat)
	assert.Equal(t, "онлайн", hackathons[0].Comments)

	assert.Equal(t, "Beta", hackathons[1].Name)
	assert.Empty(t, hackathons[1].Prizes)
}

func TestParseCSV_SkipsRowsWithoutName(t *testing.T) {
	data := csvHeader +
		"Alpha,приз,,,,,\n" +
		",потерянная строка,,,,,\n" +
		"   ,пробельная строка,,,,,\n" +
		"Beta,,,,,,\n"

	hackathons, err := importer.ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, hackathons, 2)
	assert.Equal(t, "Alpha", hackathons[0].Name)
	assert.Equal(t, "Beta", hackathons[1].Name)
}

func TestParseCSV_MissingNameColumn(t *testing.T) {
	data := "Призы,Ссылка\n100 000 ₽,https://example.com\n"

	_, err := importer.ParseCSV(strings.NewReader(data))

	require.Error(t, err)
	assert.ErrorIs(t, err, &customerrors.ErrMissingColumn{})
}

func TestParseCSV_ReorderedAndPartialColumns(t *testing.T) {
	data := "Ссылка,Название\nhttps://example.com/a,Alpha\n"

	hackathons, err := importer.ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, hackathons, 1)

	assert.Equal(t, "Alpha", hackathons[0].Name)
	assert.Equal(t, "https://example.com/a", hackathons[0].Link)
	assert.Empty(t, hackathons[0].Prizes)
}

func TestParseCSV_QuotedFieldWithComma(t *testing.T) {
	data := csvHeader +
		"Alpha,\"1 место — 100 000 ₽, 2 место — 50 000 ₽\",,,,,\n"

	hackathons, err := importer.ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, hackathons, 1)
	assert.Equal(t, "1 место — 100 000 ₽, 2 место — 50 000 ₽", hackathons[0].Prizes)
}
