package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ShareFrame/telemetry-writer/models"
	"go.uber.org/zap"
)

const TimestampLayout = "2006-01-02T15:04:05.000Z"

var (
	ErrMissingSiteID  = errors.New("siteId is required")
	ErrInvalidJSON    = errors.New("invalid JSON in request body")
	ErrInvalidMessage = errors.New("invalid JSON in message")
	ErrStore          = errors.New("error storing data")
)

// Store persists one telemetry record per call.
type Store interface {
	Put(ctx context.Context, record map[string]any) error
}

type Option func(*Processor)

// WithTimestamp turns on the generated timestamp field.
func WithTimestamp(enabled bool) Option {
	return func(p *Processor) { p.appendTimestamp = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// Processor validates telemetry submissions and writes each one as a single record.
// It holds no per-request state and is safe to share across invocations.
type Processor struct {
	store           Store
	logger          *zap.SugaredLogger
	appendTimestamp bool
	now             func() time.Time
}

func New(store Store, logger *zap.SugaredLogger, opts ...Option) *Processor {
	p := &Processor{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Write handles one synchronous submission. Any valid JSON body is accepted;
// only an object contributes fields, and an empty body stores siteId alone.
func (p *Processor) Write(ctx context.Context, siteID, body string) error {
	if siteID == "" {
		return ErrMissingSiteID
	}

	fields := map[string]any{}
	if body != "" {
		var err error
		if fields, err = decodeFields([]byte(body)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
	}

	return p.put(ctx, p.logger, siteID, fields)
}

// WriteMessage handles one queue message. Every outcome is logged against id,
// the caller only needs the returned error to count or report it.
func (p *Processor) WriteMessage(ctx context.Context, id string, raw []byte) error {
	log := p.logger.With("messageId", id)

	var msg models.TelemetryMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Errorw("Invalid JSON in message", "error", err)
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if msg.SiteID == "" {
		log.Error("siteId is required")
		return ErrMissingSiteID
	}

	fields := map[string]any{}
	if len(msg.Body) > 0 && !bytes.Equal(msg.Body, []byte("null")) {
		var err error
		if fields, err = decodeObject(msg.Body); err != nil {
			log.Errorw("Invalid JSON in message", "siteId", msg.SiteID, "error", err)
			return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
		}
	}

	return p.put(ctx, log, msg.SiteID, fields)
}

func (p *Processor) put(ctx context.Context, log *zap.SugaredLogger, siteID string, fields map[string]any) error {
	var now time.Time
	if p.appendTimestamp {
		now = p.now()
	}
	record := BuildRecord(siteID, fields, now)

	if err := p.store.Put(ctx, record); err != nil {
		log.Errorw("Error storing data", "siteId", siteID, "error", err)
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	if ts, ok := record["timestamp"]; ok {
		log.Infow("Successfully stored data", "siteId", siteID, "timestamp", ts)
	} else {
		log.Infow("Successfully stored data", "siteId", siteID)
	}
	return nil
}

// BuildRecord copies fields and sets siteId over them. A non-zero now also sets
// timestamp.
func BuildRecord(siteID string, fields map[string]any, now time.Time) map[string]any {
	record := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		record[k] = v
	}
	record["siteId"] = siteID
	if !now.IsZero() {
		record["timestamp"] = now.UTC().Format(TimestampLayout)
	}
	return record
}

// decodeFields accepts any single JSON value. Objects yield their keys, arrays
// their elements keyed by index, and scalars or null no fields at all.
func decodeFields(data []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	switch val := v.(type) {
	case map[string]any:
		return val, nil
	case []any:
		fields := make(map[string]any, len(val))
		for i, elem := range val {
			fields[strconv.Itoa(i)] = elem
		}
		return fields, nil
	default:
		return map[string]any{}, nil
	}
}

// decodeObject accepts exactly one JSON object and nothing after it.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("expected a JSON object, got null")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON object")
	}
	return obj, nil
}
