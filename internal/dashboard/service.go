package dashboard

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/your-org/aquavision/internal/analysis"
	"github.com/your-org/aquavision/internal/media"
	"github.com/your-org/aquavision/internal/present"
	"github.com/your-org/aquavision/internal/session"
	"github.com/your-org/aquavision/pkg/storage/objectstore"
	"github.com/your-org/aquavision/pkg/tracing"
)

var (
	// ErrSessionNotFound reports an unknown or expired session ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrAnalysisInProgress reports a submission while a run is in flight;
	// the in-flight run completes unaffected.
	ErrAnalysisInProgress = errors.New("analysis in progress")
)

// Publisher is the slice of the Kafka producer the service needs.
type Publisher interface {
	Publish(ctx context.Context, key []byte, value []byte, headers map[string]string) error
}

// Service wires sessions, object storage, event publication, and logging
// for the dashboard workflow.
type Service struct {
	store     objectstore.Client
	publisher Publisher
	analyzer  analysis.MediaAnalyzer
	logger    *zap.Logger
	tracer    trace.Tracer
	version   string

	maxUploadBytes int64
	historyLimit   int

	sessions *session.Manager

	mu      sync.Mutex
	objects map[string][]string // session ID -> stored object keys
}

type Params struct {
	Store          objectstore.Client
	Publisher      Publisher
	Analyzer       analysis.MediaAnalyzer
	Logger         *zap.Logger
	MaxUploadBytes int64
	HistoryLimit   int
	Session        session.Config
	Version        string
}

// UploadReceipt acknowledges an accepted submission.
type UploadReceipt struct {
	SessionID  string         `json:"session_id"`
	Media      media.Upload   `json:"media"`
	ObjectKey  string         `json:"object_key,omitempty"`
	Checksum   string         `json:"checksum,omitempty"`
	State      analysis.State `json:"state"`
	AcceptedAt time.Time      `json:"accepted_at"`
}

// NewService constructs the dashboard Service and its session manager.
func NewService(p Params) *Service {
	s := &Service{
		store:          p.Store,
		publisher:      p.Publisher,
		analyzer:       p.Analyzer,
		logger:         p.Logger,
		tracer:         tracing.Tracer("aquavision/dashboard"),
		version:        p.Version,
		maxUploadBytes: p.MaxUploadBytes,
		historyLimit:   p.HistoryLimit,
		objects:        make(map[string][]string),
	}

	s.sessions = session.NewManager(s.newSessionComponents, p.Session, p.Logger, s.evictSession)
	return s
}

func (s *Service) newSessionComponents(id string) (*media.Intake, *analysis.Coordinator) {
	intake := media.NewIntake(s.maxUploadBytes, func(up media.Upload) {
		s.logger.Info("media selected",
			zap.String("session_id", id),
			zap.String("name", up.Name),
			zap.String("kind", string(up.Kind)),
			zap.String("size", media.FormatSize(up.SizeBytes)),
		)
	})
	coordinator := analysis.NewCoordinator(s.analyzer, s.historyLimit, s.logger)
	coordinator.OnComplete(func(res analysis.Result) {
		s.publishCompleted(id, res)
	})
	return intake, coordinator
}

// CreateSession starts a fresh dashboard session.
func (s *Service) CreateSession() *session.Session {
	return s.sessions.Create()
}

// Upload streams an accepted file to the object store, selects it into the
// session's intake, and submits it for analysis.
func (s *Service) Upload(ctx context.Context, sessionID string, reader io.Reader, size int64, filename string) (*UploadReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.upload")
	defer span.End()

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.Coordinator.State() == analysis.StateAnalyzing {
		return nil, ErrAnalysisInProgress
	}

	// Reject unsupported formats before touching storage.
	if _, err := media.KindFromFilename(filename); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid file size: %d", size)
	}

	hasher := sha256.New()
	tee := io.TeeReader(reader, hasher)
	buffered := bufio.NewReaderSize(tee, 64*1024)

	objectKey := fmt.Sprintf("%s/%s/%s-%s",
		time.Now().UTC().Format("2006/01/02"), sessionID, uuid.NewString(), filename)

	metadata := map[string]string{
		"session_id":        sessionID,
		"original_filename": filename,
	}
	if err := s.store.Put(ctx, objectKey, buffered, size, metadata); err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}
	s.trackObject(sessionID, objectKey)

	up, err := sess.Intake.SelectFile(filename, size)
	if err != nil {
		return nil, err
	}
	if !sess.Coordinator.Submit(up) {
		return nil, ErrAnalysisInProgress
	}

	return &UploadReceipt{
		SessionID:  sessionID,
		Media:      up,
		ObjectKey:  objectKey,
		Checksum:   hex.EncodeToString(hasher.Sum(nil)),
		State:      sess.Coordinator.State(),
		AcceptedAt: time.Now().UTC(),
	}, nil
}

// Demo runs the demo shortcut: a fabricated zero-content placeholder that
// bypasses validation and storage.
func (s *Service) Demo(ctx context.Context, sessionID string) (*UploadReceipt, error) {
	_, span := s.tracer.Start(ctx, "dashboard.demo")
	defer span.End()

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.Coordinator.State() == analysis.StateAnalyzing {
		return nil, ErrAnalysisInProgress
	}

	up := sess.Intake.SelectDemoFile()
	if !sess.Coordinator.Submit(up) {
		return nil, ErrAnalysisInProgress
	}

	return &UploadReceipt{
		SessionID:  sessionID,
		Media:      up,
		State:      sess.Coordinator.State(),
		AcceptedAt: time.Now().UTC(),
	}, nil
}

// Snapshot returns the session's workflow state, current result, and history.
func (s *Service) Snapshot(sessionID string) (analysis.Snapshot, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return analysis.Snapshot{}, ErrSessionNotFound
	}
	return sess.Coordinator.Snapshot(), nil
}

// Dashboard renders the session's presenter view.
func (s *Service) Dashboard(sessionID string) (present.View, error) {
	snap, err := s.Snapshot(sessionID)
	if err != nil {
		return present.View{}, err
	}
	return present.BuildView(snap), nil
}

// Health reports service identity and liveness counters.
func (s *Service) Health() map[string]any {
	return map[string]any{
		"status":    "ok",
		"version":   s.version,
		"analyzer":  "simulated",
		"sessions":  s.sessions.Len(),
		"timestamp": time.Now().UTC(),
	}
}

func (s *Service) publishCompleted(sessionID string, res analysis.Result) {
	event := AnalysisCompletedEvent{
		AnalysisID:          res.ID,
		SessionID:           sessionID,
		SourceName:          res.SourceName,
		FeedAmountKg:        res.FeedAmountKg,
		Confidence:          res.Confidence,
		CostSavingsUSD:      res.CostSavingsUSD,
		SustainabilityScore: res.SustainabilityScore,
		ActivityLabel:       string(res.ActivityLabel),
		FishCount:           res.FishCount,
		ProducedAt:          res.ProducedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal analysis event", zap.Error(err))
		return
	}

	headers := map[string]string{
		"session_id": sessionID,
		"event_type": "analysis.completed",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, []byte(sessionID), payload, headers); err != nil {
		// Event publication is best-effort; the result is already current.
		s.logger.Error("publish analysis event", zap.Error(err))
	}
}

func (s *Service) trackObject(sessionID, key string) {
	s.mu.Lock()
	s.objects[sessionID] = append(s.objects[sessionID], key)
	s.mu.Unlock()
}

// evictSession sweeps the expired session's stored media objects.
func (s *Service) evictSession(sess *session.Session) {
	s.mu.Lock()
	keys := s.objects[sess.ID]
	delete(s.objects, sess.ID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := s.store.Remove(ctx, key); err != nil {
			s.logger.Warn("remove expired media object",
				zap.String("session_id", sess.ID),
				zap.String("object_key", key),
				zap.Error(err),
			)
		}
	}
}

// Close stops the session janitor and releases the object store.
func (s *Service) Close(ctx context.Context) error {
	s.sessions.Close()
	return s.store.Close()
}
