package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/limaJavier/cttfeatures/internal/cache"
	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallInstance = "Name: S\nDays: 5\nPeriods_per_day: 6\n\nCOURSES:\nc1 t1 3 2 50\nc2 t2 2 1 10\n\nROOMS:\nr1 30\n\nCURRICULA:\nk1 2 c1 c2\n"

type memoryCache struct {
	entries map[string]model.BatchResult
	sets    int
}

func (m *memoryCache) Get(_ context.Context, key string) (model.BatchResult, bool, error) {
	result, ok := m.entries[key]
	return result, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, result model.BatchResult) error {
	m.entries[key] = result
	m.sets++
	return nil
}

type envelope struct {
	Data     FeaturesResponse `json:"data"`
	Error    *ErrorBody       `json:"error"`
	Metadata Metadata         `json:"metadata"`
}

func newTestRouter(t *testing.T, featureCache cache.FeatureCache) *gin.Engine {
	t.Helper()
	engine, err := model.NewEngine(model.DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	return SetupRouter(NewFeatureHandler(engine, featureCache, zerolog.Nop()), RouterConfig{GinMode: gin.TestMode}, zerolog.Nop())
}

func post(t *testing.T, router http.Handler, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var payload []byte
	switch body := body.(type) {
	case string:
		payload = []byte(body)
	default:
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-1")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var response envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return recorder, response
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, cache.NewNoop())
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestExtract(t *testing.T) {
	//** Arrange
	router := newTestRouter(t, cache.NewNoop())

	//** Act
	recorder, response := post(t, router, "/api/v1/features", DocumentRequest{Name: "S", Content: smallInstance})

	//** Assert
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, response.Error)
	assert.Equal(t, "req-1", response.Metadata.RequestID)
	require.Len(t, response.Data.Records, 2)
	assert.Equal(t, "c1", response.Data.Records[0].CourseId)
	assert.Equal(t, 1, response.Data.Records[0].ConflictDegree)
	assert.Equal(t, 2, response.Data.Summary.Records)
	assert.False(t, response.Data.Cached)
	require.Len(t, response.Data.Reports, 1)
	assert.Equal(t, "computed", response.Data.Reports[0].Centrality)
}

func TestExtractBatch(t *testing.T) {
	t.Run("Request order is kept", func(t *testing.T) {
		//** Arrange
		router := newTestRouter(t, cache.NewNoop())
		request := BatchRequest{Documents: []DocumentRequest{
			{Name: "first", Content: smallInstance},
			{Name: "blank", Content: "Name: nothing"},
			{Name: "second", Content: smallInstance},
		}}

		//** Act
		recorder, response := post(t, router, "/api/v1/features/batch", request)

		//** Assert
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Len(t, response.Data.Records, 4)
		assert.Equal(t, "first", response.Data.Records[0].Instance)
		assert.Equal(t, "second", response.Data.Records[3].Instance)
		assert.Len(t, response.Data.Reports, 3)
		assert.Zero(t, response.Data.Reports[1].Records)
	})

	t.Run("Instances without rooms", func(t *testing.T) {
		router := newTestRouter(t, cache.NewNoop())

		recorder, response := post(t, router, "/api/v1/features/batch", BatchRequest{Documents: []DocumentRequest{
			{Name: "roomless", Content: "COURSES:\nc1 t1 1 1 1"},
		}})

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"avg_room_capacity":"NaN"`)
		require.Len(t, response.Data.Records, 1)
		assert.False(t, response.Data.Records[0].AvgRoomCapacity.IsFinite())
	})

	t.Run("Second request is served from the cache", func(t *testing.T) {
		//** Arrange
		memory := &memoryCache{entries: map[string]model.BatchResult{}}
		router := newTestRouter(t, memory)
		request := BatchRequest{Documents: []DocumentRequest{{Name: "S", Content: smallInstance}}}

		//** Act
		_, first := post(t, router, "/api/v1/features/batch", request)
		_, second := post(t, router, "/api/v1/features/batch", request)

		//** Assert
		assert.False(t, first.Data.Cached)
		assert.True(t, second.Data.Cached)
		assert.Equal(t, first.Data.Records, second.Data.Records)
		assert.Equal(t, 1, memory.sets)
	})
}

func TestExtractRejectsBadRequests(t *testing.T) {
	router := newTestRouter(t, cache.NewNoop())

	t.Run("Missing content", func(t *testing.T) {
		recorder, response := post(t, router, "/api/v1/features", map[string]string{"name": "S"})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		require.NotNil(t, response.Error)
		assert.Equal(t, ErrValidation, response.Error.Code)
		assert.Contains(t, response.Error.Fields, "content")
	})

	t.Run("Empty batch", func(t *testing.T) {
		recorder, response := post(t, router, "/api/v1/features/batch", BatchRequest{Documents: []DocumentRequest{}})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		require.NotNil(t, response.Error)
		assert.Equal(t, ErrValidation, response.Error.Code)
		assert.Contains(t, response.Error.Fields, "documents")
	})

	t.Run("Invalid nested document", func(t *testing.T) {
		_, response := post(t, router, "/api/v1/features/batch", BatchRequest{Documents: []DocumentRequest{{Name: "S"}}})

		require.NotNil(t, response.Error)
		assert.Contains(t, response.Error.Fields, "documents[0].content")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		recorder, response := post(t, router, "/api/v1/features", `{"name": `)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		require.NotNil(t, response.Error)
		assert.Equal(t, ErrInvalidPayload, response.Error.Code)
	})
}
