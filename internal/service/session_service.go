package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// InitialTableID names the table every session starts with.
const InitialTableID = "schedule-1"

type lectureCatalog interface {
	Index(ctx context.Context) (*LectureIndex, error)
}

// SessionConfig defines how sessions are issued and how long they live.
type SessionConfig struct {
	TokenSecret       string
	TokenIssuer       string
	TokenExpiry       time.Duration
	IdleTTL           time.Duration
	PageSize          int
	StrictDescriptors bool
}

// Session is the state of one timetable editor: its tables, the drag in
// progress and the search dialog. Every access holds mu.
type Session struct {
	mu       sync.Mutex
	id       string
	tables   *TableStore
	gestures *GestureTracker
	search   *SearchSession
	lastSeen time.Time
}

// SessionService owns the live sessions of the process.
type SessionService struct {
	catalog   lectureCatalog
	engine    *RelocationEngine
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    SessionConfig
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService constructs a SessionService.
func NewSessionService(catalog lectureCatalog, layout models.GridLayout, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 12 * time.Hour
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = config.IdleTTL
	}
	return &SessionService{
		catalog:   catalog,
		engine:    NewRelocationEngine(layout),
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Layout returns the grid layout sessions are edited on.
func (s *SessionService) Layout() models.GridLayout {
	return s.engine.Layout()
}

// Count reports the number of live sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Create starts a session holding one empty table and issues its token.
func (s *SessionService) Create(ctx context.Context) (*models.SessionInfo, *TableSet, error) {
	id := uuid.NewString()
	sess := &Session{
		id:       id,
		tables:   NewTableStore(InitialTableID),
		gestures: NewGestureTracker(s.engine),
		search:   NewSearchSession(s.config.PageSize),
		lastSeen: s.now(),
	}

	token, expiresAt, err := s.issueToken(id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue session token")
	}

	s.mu.Lock()
	s.sessions[id] = sess
	count := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(count)

	s.logger.Info("session created", zap.String("session_id", id))
	tables := sess.tables.Snapshot()
	return &models.SessionInfo{ID: id, Token: token, ExpiresAt: expiresAt, TableIDs: tables.IDs()}, tables, nil
}

// ValidateToken parses a session token and checks that its session is live.
func (s *SessionService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token claims")
	}
	if _, err := s.lookup(claims.SessionID); err != nil {
		return nil, err
	}
	return claims, nil
}

// Delete drops a session.
func (s *SessionService) Delete(sessionID string) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	count := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return appErrors.ErrSessionNotFound
	}
	s.metrics.SetActiveSessions(count)
	s.logger.Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

// Reset returns a session to its initial state: one empty table, no drag and
// a closed search dialog.
func (s *SessionService) Reset(sessionID string) (*TableSet, error) {
	var tables *TableSet
	err := s.with(sessionID, func(sess *Session) error {
		tables = sess.tables.Reset(InitialTableID)
		sess.gestures.Cancel()
		sess.search = NewSearchSession(s.config.PageSize)
		return nil
	})
	return tables, err
}

// Tables returns the current table set of a session.
func (s *SessionService) Tables(sessionID string) (*TableSet, error) {
	var tables *TableSet
	err := s.with(sessionID, func(sess *Session) error {
		tables = sess.tables.Snapshot()
		return nil
	})
	return tables, err
}

// Table returns one table of a session.
func (s *SessionService) Table(sessionID, tableID string) (*models.Timetable, error) {
	var table *models.Timetable
	err := s.with(sessionID, func(sess *Session) error {
		var err error
		table, err = tableOf(sess.tables.Snapshot(), tableID)
		return err
	})
	return table, err
}

// DuplicateTable copies a table under a fresh id and returns the copy.
func (s *SessionService) DuplicateTable(sessionID, tableID string) (*models.Timetable, error) {
	var table *models.Timetable
	err := s.with(sessionID, func(sess *Session) error {
		if _, err := tableOf(sess.tables.Snapshot(), tableID); err != nil {
			return err
		}
		newID := "schedule-" + uuid.NewString()
		var err error
		table, err = tableOf(sess.tables.Duplicate(newID, tableID), newID)
		return err
	})
	return table, err
}

// RemoveTable deletes a table. The last table of a session cannot be removed.
func (s *SessionService) RemoveTable(sessionID, tableID string) error {
	return s.with(sessionID, func(sess *Session) error {
		before := sess.tables.Snapshot()
		if _, err := tableOf(before, tableID); err != nil {
			return err
		}
		if sess.tables.RemoveTable(tableID) == before {
			return appErrors.ErrLastTable
		}
		if sess.search.TableID() == tableID {
			sess.search.Close()
		}
		return nil
	})
}

// RemoveEntriesAt deletes the entries of a table that cover one cell.
func (s *SessionService) RemoveEntriesAt(sessionID, tableID string, query dto.RemoveEntriesQuery) (*models.Timetable, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell")
	}
	var table *models.Timetable
	err := s.with(sessionID, func(sess *Session) error {
		if _, err := tableOf(sess.tables.Snapshot(), tableID); err != nil {
			return err
		}
		var err error
		table, err = tableOf(sess.tables.RemoveAt(tableID, query.Day, query.Period), tableID)
		return err
	})
	return table, err
}

// StartGesture records the table being dragged in. Identifiers that do not
// parse are ignored.
func (s *SessionService) StartGesture(sessionID string, req dto.GestureStartRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gesture payload")
	}
	var started bool
	err := s.with(sessionID, func(sess *Session) error {
		started = sess.gestures.Start(req.ID)
		return nil
	})
	return started, err
}

// EndGesture applies a finished drag. It returns the affected table, or nil
// when the identifier did not address a table, and whether anything moved.
func (s *SessionService) EndGesture(sessionID string, req dto.GestureEndRequest) (*models.Timetable, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gesture payload")
	}
	var (
		table *models.Timetable
		moved bool
	)
	err := s.with(sessionID, func(sess *Session) error {
		before := sess.tables.Snapshot()
		after := sess.gestures.End(sess.tables, req.ID, req.Delta, req.Geometry)
		moved = after != before
		if tableID, _, ok := ParseDragID(req.ID); ok {
			table, _ = after.Table(tableID)
		}
		return nil
	})
	if moved {
		s.logger.Debug("entry relocated", zap.String("session_id", sessionID), zap.String("drag_id", req.ID))
	}
	return table, moved, err
}

// CancelGesture forgets the drag in progress.
func (s *SessionService) CancelGesture(sessionID string) error {
	return s.with(sessionID, func(sess *Session) error {
		sess.gestures.Cancel()
		return nil
	})
}

// OpenSearch opens the search dialog for a table. The catalog is loaded
// first; the dialog stays closed when that fails.
func (s *SessionService) OpenSearch(ctx context.Context, sessionID string, req dto.OpenSearchRequest) (SearchPage, []string, error) {
	if err := s.validator.Struct(req); err != nil {
		return SearchPage{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid search payload")
	}
	if req.Day != "" && !s.Layout().HasDay(req.Day) {
		return SearchPage{}, nil, appErrors.Clone(appErrors.ErrValidation, "unknown day "+req.Day)
	}
	if _, err := s.Table(sessionID, req.TableID); err != nil {
		return SearchPage{}, nil, err
	}

	index, err := s.catalog.Index(ctx)
	if err != nil {
		return SearchPage{}, nil, err
	}

	var (
		page   SearchPage
		majors []string
	)
	err = s.with(sessionID, func(sess *Session) error {
		if _, err := tableOf(sess.tables.Snapshot(), req.TableID); err != nil {
			return err
		}
		sess.search.Attach(index)
		sess.search.Open(req.TableID, req.Day, req.Period)
		page = sess.search.Page()
		majors = sess.search.Majors()
		return nil
	})
	return page, majors, err
}

// UpdateSearchOptions replaces the dialog filters and rewinds to page 1.
func (s *SessionService) UpdateSearchOptions(sessionID string, req dto.SearchOptionsRequest) (SearchPage, error) {
	if err := s.validator.Struct(req); err != nil {
		return SearchPage{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid search options")
	}
	for _, day := range req.Days {
		if !s.Layout().HasDay(day) {
			return SearchPage{}, appErrors.Clone(appErrors.ErrValidation, "unknown day "+day)
		}
	}
	var page SearchPage
	err := s.withSearch(sessionID, func(sess *Session) error {
		sess.search.SetOption(req.Option())
		page = sess.search.Page()
		return nil
	})
	return page, err
}

// AdvanceSearch reveals the next page of results.
func (s *SessionService) AdvanceSearch(sessionID string) (SearchPage, error) {
	var page SearchPage
	err := s.withSearch(sessionID, func(sess *Session) error {
		sess.search.Advance()
		page = sess.search.Page()
		return nil
	})
	return page, err
}

// SearchResults returns the dialog as it currently stands.
func (s *SessionService) SearchResults(sessionID string) (SearchPage, []string, error) {
	var (
		page   SearchPage
		majors []string
	)
	err := s.withSearch(sessionID, func(sess *Session) error {
		page = sess.search.Page()
		majors = sess.search.Majors()
		return nil
	})
	return page, majors, err
}

// CloseSearch closes the dialog without adding anything.
func (s *SessionService) CloseSearch(sessionID string) error {
	return s.with(sessionID, func(sess *Session) error {
		sess.search.Close()
		return nil
	})
}

// CommitLecture places a catalog lecture on the dialog's table and closes the
// dialog.
func (s *SessionService) CommitLecture(ctx context.Context, sessionID string, req dto.CommitLectureRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid commit payload")
	}
	index, err := s.catalog.Index(ctx)
	if err != nil {
		return nil, err
	}
	lecture, ok := index.Lookup(req.LectureID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrLectureNotFound, "lecture "+req.LectureID+" not found in catalog")
	}
	if s.config.StrictDescriptors {
		if err := ValidateDescriptor(lecture.Schedule); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrMalformedSchedule.Code, appErrors.ErrMalformedSchedule.Status, appErrors.ErrMalformedSchedule.Message)
		}
	}

	var table *models.Timetable
	err = s.withSearch(sessionID, func(sess *Session) error {
		tableID := sess.search.TableID()
		if _, err := tableOf(sess.tables.Snapshot(), tableID); err != nil {
			return err
		}
		entries := EntriesForLecture(lecture, s.Layout())
		var err error
		table, err = tableOf(sess.tables.AddEntries(tableID, entries...), tableID)
		if err != nil {
			return err
		}
		sess.search.Close()
		s.logger.Info("lecture added",
			zap.String("session_id", sessionID),
			zap.String("table_id", tableID),
			zap.String("lecture_id", lecture.ID),
			zap.Int("entries", len(entries)),
		)
		return nil
	})
	return table, err
}

// PurgeExpired drops sessions idle for longer than the configured TTL and
// returns how many were dropped.
func (s *SessionService) PurgeExpired() int {
	cutoff := s.now().Add(-s.config.IdleTTL)

	s.mu.Lock()
	purged := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			purged++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	if purged > 0 {
		s.logger.Info("expired sessions purged", zap.Int("purged", purged), zap.Int("remaining", count))
	}
	return purged
}

// ScheduleJanitor registers PurgeExpired on c every interval. A non-positive
// interval disables the janitor.
func (s *SessionService) ScheduleJanitor(c *cron.Cron, interval time.Duration) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, nil
	}
	id, err := c.AddFunc("@every "+interval.String(), func() { s.PurgeExpired() })
	if err != nil {
		return 0, fmt.Errorf("schedule session janitor: %w", err)
	}
	s.logger.Info("session janitor scheduled", zap.Duration("interval", interval), zap.Duration("idle_ttl", s.config.IdleTTL))
	return id, nil
}

func (s *SessionService) issueToken(sessionID string) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.TokenIssuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *SessionService) lookup(sessionID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return sess, nil
}

// with runs fn while holding the session lock.
func (s *SessionService) with(sessionID string, fn func(*Session) error) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return fn(sess)
}

// withSearch is with for operations that need an open search dialog.
func (s *SessionService) withSearch(sessionID string, fn func(*Session) error) error {
	return s.with(sessionID, func(sess *Session) error {
		if !sess.search.IsOpen() {
			return appErrors.ErrSearchClosed
		}
		return fn(sess)
	})
}

func tableOf(set *TableSet, tableID string) (*models.Timetable, error) {
	table, ok := set.Table(tableID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrTableNotFound, "timetable "+tableID+" not found")
	}
	return table, nil
}
