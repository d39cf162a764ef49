package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type indexStub struct {
	index *LectureIndex
	err   error
	calls int
}

func (s *indexStub) Index(context.Context) (*LectureIndex, error) {
	s.calls++
	return s.index, s.err
}

func newSessionServiceForTest(t *testing.T, strict bool) (*SessionService, *indexStub) {
	t.Helper()
	catalog := &indexStub{index: NewLectureIndex(sampleLectures())}
	svc := NewSessionService(catalog, testLayout(), nil, nil, nil, SessionConfig{
		TokenSecret:       "test-secret",
		TokenIssuer:       "test",
		IdleTTL:           time.Hour,
		PageSize:          2,
		StrictDescriptors: strict,
	})
	return svc, catalog
}

func requireAppError(t *testing.T, err error, want *appErrors.Error) {
	t.Helper()
	require.ErrorIs(t, err, want)
}

func TestSessionServiceCreateAndValidateToken(t *testing.T) {
	svc, _ := newSessionServiceForTest(t, false)

	info, tables, err := svc.Create(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, info.Token)
	assert.Equal(t, []string{InitialTableID}, info.TableIDs)
	assert.Equal(t, 1, tables.Len())
	assert.Equal(t, 1, svc.Count())

	claims, err := svc.ValidateToken(info.Token)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.SessionID)

	_, err = svc.ValidateToken(info.Token + "x")
	requireAppError(t, err, appErrors.ErrUnauthorized)

	require.NoError(t, svc.Delete(info.ID))
	_, err = svc.ValidateToken(info.Token)
	requireAppError(t, err, appErrors.ErrSessionNotFound)
	requireAppError(t, svc.Delete(info.ID), appErrors.ErrSessionNotFound)
}

func TestSessionServiceTableLifecycle(t *testing.T) {
	svc, _ := newSessionServiceForTest(t, false)
	info, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	requireAppError(t, svc.RemoveTable(info.ID, InitialTableID), appErrors.ErrLastTable)

	copyTable, err := svc.DuplicateTable(info.ID, InitialTableID)
	require.NoError(t, err)
	assert.Contains(t, copyTable.ID, "schedule-")
	assert.NotEqual(t, InitialTableID, copyTable.ID)

	tables, err := svc.Tables(info.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{InitialTableID, copyTable.ID}, tables.IDs())

	_, err = svc.DuplicateTable(info.ID, "missing")
	requireAppError(t, err, appErrors.ErrTableNotFound)

	require.NoError(t, svc.RemoveTable(info.ID, InitialTableID))
	_, err = svc.Table(info.ID, InitialTableID)
	requireAppError(t, err, appErrors.ErrTableNotFound)

	_, err = svc.Tables("no-such-session")
	requireAppError(t, err, appErrors.ErrSessionNotFound)
}

func TestSessionServiceSearchAndCommit(t *testing.T) {
	svc, catalog := newSessionServiceForTest(t, false)
	info, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	_, err = svc.AdvanceSearch(info.ID)
	requireAppError(t, err, appErrors.ErrSearchClosed)

	page, majors, err := svc.OpenSearch(context.Background(), info.ID, dto.OpenSearchRequest{TableID: InitialTableID})
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.calls)
	assert.Len(t, page.Lectures, 2)
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 2, TotalCount: 4, LastPage: 2}, page.Pagination)
	assert.Equal(t, []string{"컴퓨터공학과", "수학과", "교양<p>글쓰기"}, majors)

	page, err = svc.AdvanceSearch(info.ID)
	require.NoError(t, err)
	assert.Len(t, page.Lectures, 2)
	page, err = svc.AdvanceSearch(info.ID)
	require.NoError(t, err)
	assert.Len(t, page.Lectures, 4)

	page, err = svc.UpdateSearchOptions(info.ID, dto.SearchOptionsRequest{Grades: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, []string{"CS101", "MA110"}, ids(page.Lectures))

	_, err = svc.UpdateSearchOptions(info.ID, dto.SearchOptionsRequest{Days: []string{"일"}})
	requireAppError(t, err, appErrors.ErrValidation)

	table, err := svc.CommitLecture(context.Background(), info.ID, dto.CommitLectureRequest{LectureID: "CS101"})
	require.NoError(t, err)
	require.Len(t, table.Entries, 2)
	assert.Equal(t, "월", table.Entries[0].Day)
	assert.Equal(t, []int{1, 2}, table.Entries[0].Range)
	assert.Equal(t, "수", table.Entries[1].Day)
	assert.Same(t, table.Entries[0].Lecture, table.Entries[1].Lecture)

	_, _, err = svc.SearchResults(info.ID)
	requireAppError(t, err, appErrors.ErrSearchClosed)
}

func TestSessionServiceOpenSearchSeedsCell(t *testing.T) {
	svc, _ := newSessionServiceForTest(t, false)
	info, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	page, _, err := svc.OpenSearch(context.Background(), info.ID, dto.OpenSearchRequest{TableID: InitialTableID, Day: "목", Period: 7})
	require.NoError(t, err)
	assert.Equal(t, []string{"목"}, page.Option.Days)
	assert.Equal(t, []int{7}, page.Option.Periods)
	assert.Equal(t, []string{"MA110"}, ids(page.Lectures))

	_, _, err = svc.OpenSearch(context.Background(), info.ID, dto.OpenSearchRequest{TableID: "missing"})
	requireAppError(t, err, appErrors.ErrTableNotFound)

	_, _, err = svc.OpenSearch(context.Background(), info.ID, dto.OpenSearchRequest{})
	requireAppError(t, err, appErrors.ErrValidation)
}

func TestSessionServiceOpenSearchCatalogFailure(t *testing.T) {
	svc, catalog := newSessionServiceForTest(t, false)
	catalog.err = appErrors.Wrap(errors.New("timeout"), appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "failed")
	info, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	_, _, err = svc.OpenSearch(context.Background(), info.ID, dto.OpenSearchRequest{TableID: InitialTableID})
	requireAppError(t, err, appErrors.ErrCatalogUnavailable)

	_, _, err = svc.SearchResults(info.ID)
	requireAppError(t, err, appErrors.ErrSearchClosed)
}

func TestSessionServiceStrictDescriptors(t *testing.T) {
	svc, _ := newSessionServiceForTest(t, true)
	info, _, err := svc.Create(context.Background())
	require.NoError(t, err)
	_, _, err = svc.OpenSearch(context.Background(), info.ID, dto.OpenSearchRequest{TableID: InitialTableID})
	require.NoError(t, err)

	_, err = svc.CommitLecture(context.Background(), info.ID, dto.CommitLectureRequest{LectureID: "GE300"})
	requireAppError(t, err, appErrors.ErrMalformedSchedule)

	_, err = svc.CommitLecture(context.Background(), info.ID, dto.CommitLectureRequest{LectureID: "NOPE"})
	requireAppError(t, err, appErrors.ErrLectureNotFound)

	table, err := svc.CommitLecture(context.Background(), info.ID, dto.CommitLectureRequest{LectureID: "CS201"})
	require.NoError(t, err)
	assert.Len(t, table.Entries, 1)
}

func TestSessionServiceLenientCommitDropsBadSegments(t *testing.T) {
	svc, _ := newSessionServiceForTest(t, false)
	info, _, err := svc.Create(context.Background())
	require.NoError(t, err)
	_, _, err = svc.OpenSearch(context.Background(), info.ID, dto.OpenSearchRequest{TableID: InitialTableID})
	require.NoError(t, err)

	table, err := svc.CommitLecture(context.Background(), info.ID, dto.CommitLectureRequest{LectureID: "GE300"})
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, "금", table.Entries[0].Day)
	assert.Equal(t, "C3", table.Entries[0].Room)
}

func TestSessionServiceGesturesAndCellRemoval(t *testing.T) {
	svc, _ := newSessionServiceForTest(t, false)
	info, _, err := svc.Create(context.Background())
	require.NoError(t, err)
	_, _, err = svc.OpenSearch(context.Background(), info.ID, dto.OpenSearchRequest{TableID: InitialTableID})
	require.NoError(t, err)
	_, err = svc.CommitLecture(context.Background(), info.ID, dto.CommitLectureRequest{LectureID: "CS201"})
	require.NoError(t, err)

	started, err := svc.StartGesture(info.ID, dto.GestureStartRequest{ID: InitialTableID + ":0"})
	require.NoError(t, err)
	assert.True(t, started)

	table, moved, err := svc.EndGesture(info.ID, dto.GestureEndRequest{ID: InitialTableID + ":0", Delta: models.Delta{X: 80, Y: -30}})
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "수", table.Entries[0].Day)
	assert.Equal(t, []int{3, 4, 5}, table.Entries[0].Range)

	table, moved, err = svc.EndGesture(info.ID, dto.GestureEndRequest{ID: "not-a-drag-id"})
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Nil(t, table)

	_, err = svc.StartGesture(info.ID, dto.GestureStartRequest{})
	requireAppError(t, err, appErrors.ErrValidation)
	require.NoError(t, svc.CancelGesture(info.ID))

	table, err = svc.RemoveEntriesAt(info.ID, InitialTableID, dto.RemoveEntriesQuery{Day: "수", Period: 4})
	require.NoError(t, err)
	assert.Empty(t, table.Entries)

	_, err = svc.RemoveEntriesAt(info.ID, InitialTableID, dto.RemoveEntriesQuery{Day: "수"})
	requireAppError(t, err, appErrors.ErrValidation)
}

func TestSessionServiceResetAndPurge(t *testing.T) {
	svc, _ := newSessionServiceForTest(t, false)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale, _, err := svc.Create(context.Background())
	require.NoError(t, err)
	fresh, _, err := svc.Create(context.Background())
	require.NoError(t, err)
	_, err = svc.DuplicateTable(fresh.ID, InitialTableID)
	require.NoError(t, err)

	tables, err := svc.Reset(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{InitialTableID}, tables.IDs())

	now = now.Add(45 * time.Minute)
	_, err = svc.Tables(fresh.ID)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, svc.PurgeExpired())
	_, err = svc.Tables(stale.ID)
	requireAppError(t, err, appErrors.ErrSessionNotFound)
	_, err = svc.Tables(fresh.ID)
	require.NoError(t, err)
}

func TestSessionServiceScheduleJanitor(t *testing.T) {
	svc, _ := newSessionServiceForTest(t, false)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	_, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	c := cron.New()
	id, err := svc.ScheduleJanitor(c, 0)
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, c.Entries())

	id, err = svc.ScheduleJanitor(c, 5*time.Minute)
	require.NoError(t, err)
	entry := c.Entry(id)
	require.True(t, entry.Valid())

	now = now.Add(2 * time.Hour)
	entry.Job.Run()
	assert.Zero(t, svc.Count())
}
