package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type catalogStub struct {
	lectures []*models.Lecture
	err      error
}

func (s *catalogStub) Index(context.Context) (*service.LectureIndex, error) {
	if s.err != nil {
		return nil, s.err
	}
	return service.NewLectureIndex(s.lectures), nil
}

func (s *catalogStub) FetchSource(_ context.Context, source models.CatalogSource) ([]*models.Lecture, error) {
	if s.err != nil {
		return nil, s.err
	}
	if source == models.CatalogSourceLiberalArts {
		return s.lectures[len(s.lectures)-1:], nil
	}
	return s.lectures[:len(s.lectures)-1], nil
}

type apiEnvelope struct {
	Data       json.RawMessage    `json:"data"`
	Error      *appErrors.Error   `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
	Meta       map[string]any     `json:"meta"`
}

func routeLectures() []*models.Lecture {
	return []*models.Lecture{
		{ID: "CS101", Title: "Programming", Credits: "3", Major: "컴퓨터공학과", Schedule: "월1~2(A101)", Grade: 1},
		{ID: "CS201", Title: "Data Structures", Credits: "3", Major: "컴퓨터공학과", Schedule: "화4~6(B201)", Grade: 2},
		{ID: "GE300", Title: "Writing", Credits: "1", Major: "교양<p>글쓰기", Schedule: "금9(C3)<p>TBA", Grade: 3},
	}
}

func buildTimetableRouter(t *testing.T, catalog *catalogStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	layout := models.GridLayout{
		Days:             []string{"월", "화", "수", "목", "금", "토"},
		Periods:          24,
		CellWidth:        80,
		CellHeight:       30,
		DayHeaderWidth:   120,
		TimeHeaderHeight: 40,
	}
	sessions := service.NewSessionService(catalog, layout, nil, nil, nil, service.SessionConfig{
		TokenSecret: "route-secret",
		TokenIssuer: "test",
		IdleTTL:     time.Hour,
		PageSize:    2,
	})
	exporter := service.NewExportService(layout, nil, nil, nil)

	router := gin.New()
	RegisterRoutes(router, Handlers{
		Sessions: NewSessionHandler(sessions),
		Tables:   NewTableHandler(sessions, exporter),
		Gestures: NewGestureHandler(sessions),
		Search:   NewSearchHandler(sessions),
		Catalog:  NewCatalogHandler(catalog),
	}, middleware.Session(sessions))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeData[T any](t *testing.T, env apiEnvelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func createSession(t *testing.T, router *gin.Engine) dto.SessionResponse {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	session := decodeData[dto.SessionResponse](t, env)
	require.NotEmpty(t, session.Token)
	return session
}

func TestTimetableRoutesRequireSession(t *testing.T) {
	router := buildTimetableRouter(t, &catalogStub{lectures: routeLectures()})

	w, env := doJSON(t, router, http.MethodGet, "/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, env.Error.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/tables", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTimetableRoutesGrid(t *testing.T) {
	router := buildTimetableRouter(t, &catalogStub{lectures: routeLectures()})

	w, env := doJSON(t, router, http.MethodGet, "/grid", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	grid := decodeData[dto.GridResponse](t, env)
	assert.Len(t, grid.Days, 6)
	require.Len(t, grid.Periods, 24)
	assert.Equal(t, "01 (09:00~09:30)", grid.Periods[0].Label)
}

func TestTimetableRoutesSearchCommitAndDrag(t *testing.T) {
	router := buildTimetableRouter(t, &catalogStub{lectures: routeLectures()})
	session := createSession(t, router)
	token := session.Token
	require.Len(t, session.Tables, 1)
	tableID := session.Tables[0].ID

	w, env := doJSON(t, router, http.MethodPost, "/search/open", token, dto.OpenSearchRequest{TableID: tableID, Day: "화", Period: 4})
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeData[dto.SearchResponse](t, env)
	require.Len(t, page.Lectures, 1)
	assert.Equal(t, "CS201", page.Lectures[0].ID)
	assert.Equal(t, []string{"화"}, page.Option.Days)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalCount)
	require.Len(t, page.Majors, 2)
	assert.Equal(t, "교양 글쓰기", page.Majors[1].Label)

	w, env = doJSON(t, router, http.MethodPatch, "/search/options", token, dto.SearchOptionsRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeData[dto.SearchResponse](t, env)
	assert.Len(t, page.Lectures, 2)
	assert.Equal(t, 3, env.Pagination.TotalCount)
	assert.Equal(t, 2, env.Pagination.LastPage)

	w, env = doJSON(t, router, http.MethodPost, "/search/advance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeData[dto.SearchResponse](t, env)
	assert.Len(t, page.Lectures, 2)

	w, env = doJSON(t, router, http.MethodPost, "/search/advance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeData[dto.SearchResponse](t, env)
	assert.Len(t, page.Lectures, 3)

	w, env = doJSON(t, router, http.MethodPost, "/search/commit", token, dto.CommitLectureRequest{LectureID: "CS201"})
	require.Equal(t, http.StatusOK, w.Code)
	table := decodeData[dto.TableResponse](t, env)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, "화", table.Entries[0].Day)
	assert.Equal(t, []int{4, 5, 6}, table.Entries[0].Range)
	assert.Equal(t, "B201", table.Entries[0].Room)

	w, env = doJSON(t, router, http.MethodGet, "/search", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrSearchClosed.Code, env.Error.Code)

	dragID := table.Entries[0].DragID
	w, _ = doJSON(t, router, http.MethodPost, "/gestures/start", token, dto.GestureStartRequest{ID: dragID})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, router, http.MethodPost, "/gestures/end", token, dto.GestureEndRequest{ID: dragID, Delta: models.Delta{X: 75, Y: 34}})
	require.Equal(t, http.StatusOK, w.Code)
	moved := decodeData[dto.GestureResponse](t, env)
	assert.True(t, moved.Moved)
	require.NotNil(t, moved.Table)
	assert.Equal(t, "수", moved.Table.Entries[0].Day)
	assert.Equal(t, []int{5, 6, 7}, moved.Table.Entries[0].Range)

	w, env = doJSON(t, router, http.MethodDelete, "/tables/"+tableID+"/entries?"+url.Values{"day": {"수"}, "period": {"6"}}.Encode(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[dto.TableResponse](t, env).Entries)
}

func TestTimetableRoutesTableLifecycle(t *testing.T) {
	router := buildTimetableRouter(t, &catalogStub{lectures: routeLectures()})
	session := createSession(t, router)
	token := session.Token
	tableID := session.Tables[0].ID

	w, env := doJSON(t, router, http.MethodPost, "/tables/"+tableID+"/duplicate", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	copyTable := decodeData[dto.TableResponse](t, env)
	assert.NotEqual(t, tableID, copyTable.ID)

	w, env = doJSON(t, router, http.MethodGet, "/tables", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]dto.TableResponse](t, env), 2)

	w, _ = doJSON(t, router, http.MethodDelete, "/tables/"+copyTable.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = doJSON(t, router, http.MethodDelete, "/tables/"+tableID, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrLastTable.Code, env.Error.Code)

	w, env = doJSON(t, router, http.MethodGet, "/tables/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, appErrors.ErrTableNotFound.Code, env.Error.Code)

	w, _ = doJSON(t, router, http.MethodDelete, "/tables/"+tableID+"/entries?"+url.Values{"day": {"월"}}.Encode(), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodDelete, "/sessions/current", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/tables", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, appErrors.ErrSessionNotFound.Code, env.Error.Code)
}

func TestTimetableRoutesExport(t *testing.T) {
	router := buildTimetableRouter(t, &catalogStub{lectures: routeLectures()})
	session := createSession(t, router)
	tableID := session.Tables[0].ID

	w, _ := doJSON(t, router, http.MethodGet, "/tables/"+tableID+"/export", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), tableID+".csv")
	assert.Contains(t, w.Body.String(), "교시")

	w, _ = doJSON(t, router, http.MethodGet, "/tables/"+tableID+"/export?format=xlsx", session.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableRoutesCatalog(t *testing.T) {
	router := buildTimetableRouter(t, &catalogStub{lectures: routeLectures()})

	w, env := doJSON(t, router, http.MethodGet, "/catalog", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	catalog := decodeData[dto.CatalogResponse](t, env)
	assert.Len(t, catalog.Lectures, 3)
	assert.EqualValues(t, 3, env.Meta["count"])

	w, env = doJSON(t, router, http.MethodGet, "/catalog?source=liberal-arts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	catalog = decodeData[dto.CatalogResponse](t, env)
	require.Len(t, catalog.Lectures, 1)
	assert.Equal(t, "GE300", catalog.Lectures[0].ID)

	w, _ = doJSON(t, router, http.MethodGet, "/catalog?source=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableRoutesCatalogUnavailable(t *testing.T) {
	failing := &catalogStub{err: appErrors.Clone(appErrors.ErrCatalogUnavailable, "origin down")}
	router := buildTimetableRouter(t, failing)
	session := createSession(t, router)

	w, env := doJSON(t, router, http.MethodPost, "/search/open", session.Token, dto.OpenSearchRequest{TableID: session.Tables[0].ID})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, appErrors.ErrCatalogUnavailable.Code, env.Error.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/search", session.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
