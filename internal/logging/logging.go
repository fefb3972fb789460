package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New construye el logger de la aplicación.
// format "console" usa salida legible para desarrollo; cualquier otro valor produce JSON.
// Un nivel inválido cae a info en lugar de fallar el arranque.
func New(level, format string, writer io.Writer) zerolog.Logger {
	if writer == nil {
		writer = os.Stdout
	}

	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsedLevel == zerolog.NoLevel {
		parsedLevel = zerolog.InfoLevel
	}

	if strings.EqualFold(strings.TrimSpace(format), "console") {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	return zerolog.New(writer).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "inventory-api").
		Logger()
}
