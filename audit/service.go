package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/qingyun/xiuxian/server/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	queueSize     = 1024
	batchSize     = 100
	flushInterval = 2 * time.Second
)

// Actions recorded by the character service.
const (
	ActionCharacterCreate  = "character.create"
	ActionCharacterDelete  = "character.delete"
	ActionBreakthrough     = "character.breakthrough"
	ActionResourceAdjust   = "character.resource_adjust"
	ActionCultivationStart = "character.cultivation_start"
	ActionCultivationStop  = "character.cultivation_stop"
)

type traceKey struct{}

// WithTraceID returns a context carrying the request trace id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// TraceID returns the trace id stored by WithTraceID, or "".
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// Entry holds one audit event.
type Entry struct {
	TraceID     string
	CharacterID string
	Action      string
	Detail      any
	Err         error
}

// Recorder accepts audit entries. A nil *Service is a valid no-op Recorder.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Service writes audit entries asynchronously in batches.
type Service struct {
	db     *gorm.DB
	ch     chan *model.AuditLog
	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a new audit Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	svc := &Service{
		db:     db,
		ch:     make(chan *model.AuditLog, queueSize),
		stopCh: make(chan struct{}),
		logger: logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Record enqueues e. The trace id is taken from ctx when e has none. Entries
// are dropped, with a warning, when the queue is full.
func (svc *Service) Record(ctx context.Context, e Entry) {
	if svc == nil {
		return
	}
	if e.TraceID == "" {
		e.TraceID = TraceID(ctx)
	}
	row := &model.AuditLog{
		TraceID:     e.TraceID,
		CharacterID: e.CharacterID,
		Action:      e.Action,
	}
	if e.Detail != nil {
		if b, err := json.Marshal(e.Detail); err == nil {
			row.Detail = datatypes.JSON(b)
		}
	}
	if e.Err != nil {
		row.Error = e.Err.Error()
	}
	select {
	case svc.ch <- row:
	default:
		svc.logger.Warn("audit queue full, dropping entry",
			zap.String("action", e.Action),
			zap.String("character_id", e.CharacterID))
	}
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	svc.once.Do(func() { close(svc.stopCh) })
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*model.AuditLog, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("audit batch write failed", zap.Int("entries", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case row := <-svc.ch:
			batch = append(batch, row)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case row := <-svc.ch:
					batch = append(batch, row)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
