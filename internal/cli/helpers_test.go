package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/studyplan/internal/config"
	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/intelligence"
	"github.com/alexanderramin/studyplan/internal/llm"
	"github.com/alexanderramin/studyplan/internal/testutil"
)

// fakePlanClient returns queued results in order, repeating the last one.
type fakePlanClient struct {
	mu           sync.Mutex
	results      []domain.PlanResult
	block        bool
	blockMessage bool
	message      string
	messageErr   error
	requests     []contract.PlanRequest
	ctxs         []context.Context
}

func (f *fakePlanClient) FetchMessage(ctx context.Context) (string, error) {
	if f.blockMessage {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.message, f.messageErr
}

func (f *fakePlanClient) Submit(ctx context.Context, req contract.PlanRequest) domain.PlanResult {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.ctxs = append(f.ctxs, ctx)
	block := f.block
	var result domain.PlanResult
	if n := len(f.results); n > 0 {
		result = f.results[0]
		if n > 1 {
			f.results = f.results[1:]
		}
	}
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return domain.NewPlanFailure(ctx.Err().Error())
	}
	return result
}

func (f *fakePlanClient) Requests() []contract.PlanRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]contract.PlanRequest(nil), f.requests...)
}

// fp3Fields is the sample submission as form values.
func fp3Fields() goalFields {
	return goalFields{
		examName:   "FP3級",
		examDate:   "2025-01-26",
		dailyHours: "2",
		totalHours: "100",
		weakAreas:  "税金、保険",
	}
}

func englishMessages() intelligence.Messages {
	return intelligence.MessagesFor(intelligence.LocaleEnglish)
}

// testApp returns an App whose collaborators are all in-process fakes.
func testApp(t *testing.T, pc PlanClient) *App {
	t.Helper()
	return &App{
		LoadConfig: func(string) (config.Config, error) { return config.Default(), nil },
		NewLLMClient: func(context.Context, llm.LLMConfig, llm.Observer) (llm.LLMClient, error) {
			return testutil.NewFakeLLMClient("# Plan"), nil
		},
		NewPlanClient: func(string, intelligence.Messages) PlanClient { return pc },
		Now:           testutil.Clock(testutil.FixedNow),
	}
}

// executeCmd runs the root command with args and returns combined output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdContext(t, context.Background(), app, args...)
}

func executeCmdContext(t *testing.T, ctx context.Context, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}
