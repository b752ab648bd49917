package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/hack-community/hackmate/internal/domain/errors"
)

// OpenSource открывает источник импорта: локальный путь или HTTP(S)-URL.
// URL скачивается устойчивым клиентом с повторами.
func OpenSource(ctx context.Context, client *resty.Client, source string) (io.Reader, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := client.R().SetContext(ctx).Get(source)
		if err != nil {
			return nil, fmt.Errorf("ошибка при загрузке файла импорта: %w", err)
		}

		if resp.StatusCode() >= 400 {
			return nil, &errors.HTTPError{StatusCode: resp.StatusCode()}
		}

		return bytes.NewReader(resp.Body()), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении файла импорта: %w", err)
	}

	return bytes.NewReader(data), nil
}
