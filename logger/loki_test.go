package logger_test

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/tracknine/spoor"
	"github.com/tracknine/spoor/logger"
)

type lokiCapture struct {
	mu     sync.Mutex
	bodies [][]byte
	ids    []string
}

func (c *lokiCapture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	c.mu.Lock()
	c.bodies = append(c.bodies, body)
	c.ids = append(c.ids, r.Header.Get("X-Request-Id"))
	c.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func TestLokiSinkPushesRecord(t *testing.T) {
	// Arrange
	capture := new(lokiCapture)
	srv := httptest.NewServer(capture)
	defer srv.Close()

	l, err := logger.New(logger.Config{
		Name:  "loki-test",
		Style: spoor.Prod,
		Sinks: []logger.SinkConfig{logger.LokiConfig{
			Endpoint:  srv.URL,
			Labels:    map[string]string{"app": "spoor"},
			LabelKeys: []string{"level", "logger"},
			Metadata:  map[string]string{"region": "eu-west"},
		}},
	})
	require.Nil(t, err)

	// Act
	l.Info("shipped upstream")
	require.Nil(t, l.Close())

	// Assert
	require.Len(t, capture.bodies, 1)
	require.NotEmpty(t, capture.ids[0])

	var push struct {
		Streams []struct {
			Stream map[string]string `json:"stream"`
			Values [][]any           `json:"values"`
		} `json:"streams"`
	}
	require.Nil(t, json.Unmarshal(capture.bodies[0], &push))
	require.Len(t, push.Streams, 1)

	stream := push.Streams[0]
	require.Equal(t, "spoor", stream.Stream["app"])
	require.Equal(t, "INFO", stream.Stream["level"])
	require.Equal(t, "loki-test", stream.Stream["logger"])

	require.Len(t, stream.Values, 1)
	entry := stream.Values[0]
	require.GreaterOrEqual(t, len(entry), 2)
	line, ok := entry[1].(string)
	require.True(t, ok)
	require.True(t, strings.Contains(line, "shipped upstream"), line)
	// Prod style lines carry no timestamp; the push entry does.
	require.True(t, strings.HasPrefix(line, "loki-test - INFO"), line)
}

func TestLokiSinkRespectsMinLevel(t *testing.T) {
	// Arrange
	capture := new(lokiCapture)
	srv := httptest.NewServer(capture)
	defer srv.Close()

	l, err := logger.New(logger.Config{
		Name:  "loki-test",
		Sinks: []logger.SinkConfig{logger.LokiConfig{Endpoint: srv.URL, MinLevel: logger.LevelError}},
	})
	require.Nil(t, err)

	// Act
	l.Debug("too quiet")
	l.Info("still too quiet")
	l.Error("loud enough", nil)

	// Assert
	require.Len(t, capture.bodies, 1)
}

func TestLokiSinkDefaultMinLevel(t *testing.T) {
	// Arrange
	capture := new(lokiCapture)
	srv := httptest.NewServer(capture)
	defer srv.Close()

	l, err := logger.New(logger.Config{
		Name:  "loki-test",
		Sinks: []logger.SinkConfig{logger.LokiConfig{Endpoint: srv.URL}},
	})
	require.Nil(t, err)

	// Act: the lowest level, with no MinLevel configured.
	l.Debug("quiet but shipped")

	// Assert
	require.Len(t, capture.bodies, 1)
}

func TestLokiSinkServerFailure(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ingester unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	fallback := new(bytes.Buffer)
	l, err := logger.New(logger.Config{
		Name:  "loki-test",
		Sinks: []logger.SinkConfig{logger.LokiConfig{Endpoint: srv.URL}},
	}, logger.WithFallback(log.New(fallback, "", 0)))
	require.Nil(t, err)

	// Act + Assert: the failure is contained and reported.
	require.NotPanics(t, func() { l.Info("doomed push") })
	require.True(t, strings.Contains(fallback.String(), "503"), fallback.String())
}

func TestLokiSinkRequiresEndpoint(t *testing.T) {
	// Act
	_, err := logger.New(logger.Config{
		Name:  "loki-test",
		Sinks: []logger.SinkConfig{logger.LokiConfig{}},
	})

	// Assert
	require.ErrorIs(t, err, spoor.ErrBadConfig)
}
