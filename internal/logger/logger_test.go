package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/dqdash/internal/config"
)

func TestConfigureLevels(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	Configure(&config.Config{LogJSON: true, LogFile: filepath.Join(t.TempDir(), "app.log")})
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	Configure(&config.Config{DevMode: true})
	assert.Equal(t, zerolog.TraceLevel, log.Logger.GetLevel())
}

func TestFxWriterTrimsNewline(t *testing.T) {
	var buf bytes.Buffer
	w := fxLogger{l: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	n, err := w.Write([]byte("[Fx] PROVIDE\n"))
	assert.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Equal(t, `{"level":"debug","message":"[Fx] PROVIDE"}`+"\n", buf.String())
}
