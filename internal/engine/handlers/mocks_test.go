package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
)

type MockEngine struct {
	mock.Mock
}

var _ Engine = (*MockEngine)(nil)

func (m *MockEngine) SubmitScore(ctx context.Context, req types.SubmitScoreRequest) (types.ScoreResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.ScoreResult), args.Error(1)
}

func (m *MockEngine) SubmitTip(ctx context.Context, req types.SubmitTipRequest) (types.TipResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.TipResult), args.Error(1)
}

func (m *MockEngine) ConfirmTip(ctx context.Context, txID string, status types.TipStatus) (types.TipEvent, error) {
	args := m.Called(ctx, txID, status)
	return args.Get(0).(types.TipEvent), args.Error(1)
}

func (m *MockEngine) GetLeaderboard(ctx context.Context, gameID string, limit int) ([]types.LeaderboardEntry, error) {
	args := m.Called(ctx, gameID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LeaderboardEntry), args.Error(1)
}

func (m *MockEngine) GetPlayerRank(ctx context.Context, gameID, playerID string) (types.LeaderboardEntry, bool, error) {
	args := m.Called(ctx, gameID, playerID)
	return args.Get(0).(types.LeaderboardEntry), args.Bool(1), args.Error(2)
}

func (m *MockEngine) GetPostAggregate(ctx context.Context, postID string) (types.PostTipAggregate, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(types.PostTipAggregate), args.Error(1)
}

func setupTestHandler() (*Handler, *MockEngine) {
	engine := new(MockEngine)
	handler := NewHandler(engine, nil, logging.NoopLogger{})
	return handler, engine
}

// newTestContext builds a gin context carrying a JSON body and path params.
func newTestContext(t *testing.T, method, path string, body interface{}, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params

	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return response
}
