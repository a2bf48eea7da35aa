package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tracknine/spoor"
)

const (
	defaultLokiTimeout = 5 * time.Second

	// lokiTripThreshold consecutive push failures open the breaker;
	// lokiBreakerTimeout later it half-opens and probes again.
	lokiTripThreshold  = 5
	lokiBreakerTimeout = 30 * time.Second
)

// LokiConfig configures a sink pushing records to a Loki-compatible
// log aggregator.
type LokiConfig struct {
	// Endpoint is the push URL, e.g.
	// "http://loki:3100/loki/api/v1/push". Required.
	Endpoint string

	// Labels are attached statically to every pushed stream.
	Labels map[string]string

	// LabelKeys name record fields promoted to stream labels per
	// push: "level", "logger", "module", "function".
	LabelKeys []string

	// Metadata rides along each entry as structured metadata.
	Metadata map[string]string

	// Timeout bounds each push; defaults to 5s.
	Timeout time.Duration

	// MinLevel defaults to LevelDebug.
	MinLevel Level
}

func (cfg LokiConfig) provision(style spoor.Style) (Sink, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: loki sink requires an endpoint", spoor.ErrBadConfig)
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("%w: loki endpoint: %s", spoor.ErrBadConfig, err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultLokiTimeout
	}

	min := cfg.MinLevel
	if min == LevelUnk {
		min = LevelDebug
	}

	s := &LokiSink{
		style:     style,
		min:       min,
		endpoint:  cfg.Endpoint,
		labels:    cfg.Labels,
		labelKeys: cfg.LabelKeys,
		metadata:  cfg.Metadata,
		client:    &http.Client{Timeout: timeout},
	}
	s.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "loki",
		Timeout: lokiBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= lokiTripThreshold
		},
	})

	return s, nil
}

// A LokiSink forwards records to a remote log aggregator speaking the
// Loki push API. A circuit breaker lets a dead aggregator degrade into
// fast-failing emissions instead of a timeout per log call.
type LokiSink struct {
	style     spoor.Style
	min       Level
	endpoint  string
	labels    map[string]string
	labelKeys []string
	metadata  map[string]string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[struct{}]
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]any           `json:"values"`
}

type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

func (s *LokiSink) Emit(r Record) error {
	body, err := json.Marshal(s.payload(r))
	if err != nil {
		return fmt.Errorf("%w: encode loki payload: %s", spoor.ErrUnexpected, err)
	}

	_, err = s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.push(body)
	})
	if err != nil {
		return fmt.Errorf("%w: loki push: %s", spoor.ErrUnexpected, err)
	}

	return nil
}

func (s *LokiSink) MinLevel() Level { return s.min }

// Close drops pooled connections; there is no buffered state to flush.
func (s *LokiSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *LokiSink) payload(r Record) lokiPush {
	labels := make(map[string]string, len(s.labels)+len(s.labelKeys))
	for k, v := range s.labels {
		labels[k] = v
	}
	for _, key := range s.labelKeys {
		if val := fieldValue(r, key); val != "" {
			labels[key] = val
		}
	}

	entry := []any{
		strconv.FormatInt(r.Timestamp.UnixNano(), 10),
		formatLine(s.style, r),
	}
	if meta := s.entryMetadata(r); len(meta) > 0 {
		entry = append(entry, meta)
	}

	return lokiPush{Streams: []lokiStream{{Stream: labels, Values: [][]any{entry}}}}
}

// entryMetadata merges the configured static metadata with per-record
// context, the structured counterpart of the formatted line.
func (s *LokiSink) entryMetadata(r Record) map[string]string {
	meta := make(map[string]string, len(s.metadata)+4)
	for k, v := range s.metadata {
		meta[k] = v
	}

	if r.Caller.Class != "" {
		meta["class"] = r.Caller.Class
	}
	if r.Err != nil {
		meta["error_kind"] = r.Err.Kind
		meta["error_message"] = r.Err.Message
	}

	return meta
}

func (s *LokiSink) push(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}

// fieldValue maps a label key to the record field it names.
func fieldValue(r Record, key string) string {
	switch key {
	case "level":
		return r.Level.String()
	case "logger":
		return r.LoggerName
	case "module":
		return r.Caller.Module
	case "function":
		return r.Caller.Function
	default:
		return ""
	}
}
