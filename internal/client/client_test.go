package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/gateway"
	"github.com/alexanderramin/studyplan/internal/intelligence"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestFetchMessage(t *testing.T) {
	srv := testutil.NewHTTPTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/message", r.URL.Path)
		jsonHandler(http.StatusOK, `{"message":"hello"}`)(w, r)
	}))

	msg, err := New(srv.URL + "/").FetchMessage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "hello", msg)
}

func TestFetchMessage_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", jsonHandler(http.StatusInternalServerError, `{"error":"x"}`)},
		{"not json", jsonHandler(http.StatusOK, `<html>`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewHTTPTestServer(t, tt.handler)

			_, err := New(srv.URL).FetchMessage(context.Background())

			assert.True(t, IsTransportError(err))
		})
	}
}

func TestGeneratePlan_SendsRequestBody(t *testing.T) {
	var got map[string]any
	srv := testutil.NewHTTPTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/plan", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		jsonHandler(http.StatusOK, `{"plan":"# Plan\n..."}`)(w, r)
	}))

	result, err := New(srv.URL).GeneratePlan(context.Background(), testutil.NewTestPlanRequest())

	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, "# Plan\n...", result.Plan)
	assert.Equal(t, map[string]any{
		"examName":   "FP3級",
		"examDate":   "2025-01-26",
		"dailyHours": 2.0,
		"weakAreas":  "税金、保険",
		"totalHours": 100.0,
	}, got)
}

func TestGeneratePlan_GatewayErrorIsFailedResult(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		srv := testutil.NewHTTPTestServer(t, jsonHandler(status, `{"error":"AIからの応答取得に失敗しました。"}`))

		result, err := New(srv.URL).GeneratePlan(context.Background(), testutil.NewTestPlanRequest())

		require.NoError(t, err)
		assert.False(t, result.Succeeded())
		assert.Equal(t, "AIからの応答取得に失敗しました。", result.Error)
	}
}

func TestGeneratePlan_TransportFailures(t *testing.T) {
	srv := testutil.NewHTTPTestServer(t, jsonHandler(http.StatusBadGateway, `upstream down`))

	_, err := New(srv.URL).GeneratePlan(context.Background(), testutil.NewTestPlanRequest())
	assert.True(t, IsTransportError(err))

	_, err = New("http://127.0.0.1:1").GeneratePlan(context.Background(), testutil.NewTestPlanRequest())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "plan", te.Op)
}

func TestGeneratePlan_CanceledContext(t *testing.T) {
	srv := testutil.NewHTTPTestServer(t, jsonHandler(http.StatusOK, `{"plan":"x"}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).GeneratePlan(ctx, testutil.NewTestPlanRequest())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubmit_TransportFailureUsesLocalMessage(t *testing.T) {
	c := New("http://127.0.0.1:1", WithMessages(intelligence.MessagesFor(intelligence.LocaleJapanese)))

	result := c.Submit(context.Background(), testutil.NewTestPlanRequest())

	assert.False(t, result.Succeeded())
	assert.Equal(t, "エラーが発生しました", result.Error)
}

func TestClient_AgainstGateway(t *testing.T) {
	llmClient := testutil.NewFakeLLMClient("# Plan\n\n## Week 1")
	svc := intelligence.NewPlanService(llmClient)
	srv := testutil.NewHTTPTestServer(t, gateway.NewServer(svc, intelligence.MessagesFor(intelligence.LocaleEnglish)).Handler())
	c := New(srv.URL)

	msg, err := c.FetchMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Connected to the study plan gateway.", msg)

	result := c.Submit(context.Background(), testutil.NewTestPlanRequest())
	assert.True(t, result.Succeeded())
	assert.Equal(t, "# Plan\n\n## Week 1", result.Plan)

	result = c.Submit(context.Background(), contract.PlanRequest{ExamName: " "})
	assert.False(t, result.Succeeded())
	assert.Equal(t, "exam/qualification name is required.", result.Error)
	assert.Equal(t, 1, llmClient.Calls())
}

func TestNew_TransportKeepsDefaults(t *testing.T) {
	c := New("")

	tr, ok := c.http.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.Proxy)
	assert.Equal(t, http.DefaultTransport.(*http.Transport).TLSHandshakeTimeout, tr.TLSHandshakeTimeout)
	assert.Equal(t, http.DefaultTransport.(*http.Transport).IdleConnTimeout, tr.IdleConnTimeout)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
