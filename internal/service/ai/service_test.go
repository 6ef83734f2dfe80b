package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/domain/services"
	"waflens/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) Name() string { return "mock" }

var caller = &models.Identity{SubjectID: "u1"}

func newTestService(gw services.AIGateway) (services.AIService, *telemetry.Metrics) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(gw, metrics, logger), metrics
}

func TestChatPassesTextThrough(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Context: scoring security") && strings.HasSuffix(p, "User: how do I rotate keys?")
	})).Return("  Rotate them.\n", nil).Once()

	svc, metrics := newTestService(gw)
	ctxText := "scoring security"
	resp, err := svc.Chat(context.Background(), caller, &services.ChatRequest{
		Message: "how do I rotate keys?",
		Context: &ctxText,
	})
	require.NoError(t, err)
	assert.Equal(t, "  Rotate them.\n", resp.Response)
	assert.Equal(t, "how do I rotate keys?", resp.UserMessage)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamCalls.WithLabelValues("mock", "ok")))
	gw.AssertExpectations(t)
}

func TestChatValidation(t *testing.T) {
	gw := new(mockGateway)
	svc, _ := newTestService(gw)

	tooLongContext := strings.Repeat("x", 16001)
	tests := []struct {
		name string
		req  *services.ChatRequest
	}{
		{"empty message", &services.ChatRequest{}},
		{"blank message", &services.ChatRequest{Message: "   \n"}},
		{"message too long", &services.ChatRequest{Message: strings.Repeat("x", 4001)}},
		{"context too long", &services.ChatRequest{Message: "hi", Context: &tooLongContext}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Chat(context.Background(), caller, tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	gw.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGatewayFailureIsUpstreamUnavailable(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
	}{
		{"provider error", "", errors.New("529 overloaded: secret detail")},
		{"empty completion", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(mockGateway)
			gw.On("Complete", mock.Anything, mock.Anything).Return(tt.text, tt.err).Once()

			svc, metrics := newTestService(gw)
			_, err := svc.Chat(context.Background(), caller, &services.ChatRequest{Message: "hi"})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
			assert.NotContains(t, err.Error(), "secret detail")
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamCalls.WithLabelValues("mock", "error")))

			// Exactly one call: no retries
			gw.AssertNumberOfCalls(t, "Complete", 1)
		})
	}
}

func TestAnalyze(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "SECURITY pillar") && strings.Contains(p, `"answer": "yes"`)
	})).Return(`{"score": 70}`, nil).Once()

	svc, _ := newTestService(gw)
	resp, err := svc.Analyze(context.Background(), caller, &services.AnalyzeRequest{
		Pillar:    "security",
		Responses: []models.Response{{"question": "mfa", "answer": "yes"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"score": 70}`, resp.RawResponse)
	assert.Equal(t, "security", resp.Pillar)

	_, err = svc.Analyze(context.Background(), caller, &services.AnalyzeRequest{Pillar: "security"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRemediationDefaultsToGCP(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Cloud Provider: GCP") && strings.Contains(p, "Control: sec-3")
	})).Return("1. Do the thing", nil).Once()

	svc, _ := newTestService(gw)
	resp, err := svc.Remediation(context.Background(), caller, &services.RemediationRequest{
		Control:      "sec-3",
		CurrentState: "no perimeter",
	})
	require.NoError(t, err)
	assert.Equal(t, "gcp", resp.CloudProvider)
	assert.Equal(t, "sec-3", resp.Control)
	assert.Equal(t, "1. Do the thing", resp.Remediation)

	_, err = svc.Remediation(context.Background(), caller, &services.RemediationRequest{Control: "sec-3"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChatPromptWithoutContext(t *testing.T) {
	p := chatPrompt("what is MTTR?", nil)
	assert.NotContains(t, p, "Context:")
	assert.True(t, strings.HasPrefix(p, "You are a helpful cloud architecture assistant"))
}
