package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

// Заголовки импортируемой таблицы. Обязательна только колонка с названием,
// остальные при отсутствии дают пустые поля.
const (
	columnName         = "Название"
	columnPrizes       = "Призы"
	columnRegistration = "Регистрация"
	columnDuration     = "Длительность"
	columnLink         = "Ссылка"
	columnTelegramChat = "Telegram чат"
	columnComments     = "Комментарии"
)

// ParseCSV читает таблицу хакатонов. Строки без названия пропускаются:
// экспорт из таблиц часто оставляет пустые хвостовые строки.
func ParseCSV(r io.Reader) ([]*models.Hackathon, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении заголовка CSV: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.TrimSpace(column)] = i
	}

	if _, ok := index[columnName]; !ok {
		return nil, &errors.ErrMissingColumn{Column: columnName}
	}

	var hackathons []*models.Hackathon

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("ошибка при чтении строки CSV: %w", err)
		}

		name := strings.TrimSpace(field(record, index, columnName))
		if name == "" {
			continue
		}

		hackathons = append(hackathons, &models.Hackathon{
			Name:         name,
			Prizes:       field(record, index, columnPrizes),
			Registration: field(record, index, columnRegistration),
			Duration:     field(record, index, columnDuration),
			Link:         field(record, index, columnLink),
			TelegramChat: field(record, index, columnTelegramChat),
			Comments:     field(record, index, columnComments),
		})
	}

	return hackathons, nil
}

func field(record []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}
