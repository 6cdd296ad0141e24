package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
	"quiz-session-service/internal/infra/memory"
)

const (
	testUser    = "quiz"
	testPass    = "secret"
	testSession = "c9a2f1de-6d9b-4a4f-8a73-52b90f1f2a11"
)

func testCatalog() []domain.Question {
	return []domain.Question{
		{ID: 1, OrderNo: 1, Text: "capital of France?", Type: domain.SingleChoice, CorrectAnswer: "1",
			Options: []domain.Option{
				{ID: 1, QuestionID: 1, Text: "Paris"},
				{ID: 2, QuestionID: 1, Text: "London"},
			}},
		{ID: 2, OrderNo: 2, Text: "symbol for water?", Type: domain.ShortAnswer},
		{ID: 3, OrderNo: 3, Text: "your phone number", Type: domain.PhoneNumber},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore(testCatalog())
	service := app.NewQuizService(store, store, store)
	router := NewRouter(service, BasicAuth{Username: testUser, Password: testPass})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.SetBasicAuth(testUser, testPass)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func TestAuthGate(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/questions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("WWW-Authenticate"); got == "" {
		t.Fatalf("expected WWW-Authenticate challenge")
	}

	// Health probe stays open.
	resp, err = http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected open healthz, got %d", resp.StatusCode)
	}
}

func TestGetQuestionsGrid(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/questions", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	items := decodeBody[[]domain.GridItem](t, resp)
	if len(items) != 3 {
		t.Fatalf("expected 3 grid items, got %d", len(items))
	}
	if items[0].CorrectAnswer == nil || *items[0].CorrectAnswer != "1" {
		t.Fatalf("expected choice answer in grid, got %+v", items[0])
	}
	if items[1].CorrectAnswer != nil {
		t.Fatalf("expected free-text answer hidden, got %+v", items[1])
	}
}

func TestGetQuestionDetailSubset(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/questions/detail", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	views := decodeBody[[]domain.QuestionView](t, resp)
	// Catalog smaller than the subset size: everything comes back, renumbered.
	if len(views) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(views))
	}
	for i, v := range views {
		if v.OrderNo != i+1 {
			t.Fatalf("expected attempt-local order %d, got %d", i+1, v.OrderNo)
		}
	}
}

func TestGetQuestionByOrderBounds(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/questions/0", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for order 0, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/questions/99", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for out-of-range order, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/questions/2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	view := decodeBody[domain.QuestionView](t, resp)
	if view.QuestionID != 2 || view.OrderNo != 2 {
		t.Fatalf("expected question 2 with catalog order, got %+v", view)
	}
}

func TestSaveResponseFlow(t *testing.T) {
	server := newTestServer(t)

	// Missing session id.
	resp := doRequest(t, http.MethodPost, server.URL+"/api/responses", map[string]any{
		"sessionId": "", "questionId": 1, "answerText": "1",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing session, got %d", resp.StatusCode)
	}

	// Validation failure is reported, not a fault.
	resp = doRequest(t, http.MethodPost, server.URL+"/api/responses", map[string]any{
		"sessionId": testSession, "questionId": 3, "answerText": "12345",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid phone, got %d", resp.StatusCode)
	}
	errBody := decodeBody[struct {
		Errors []string `json:"errors"`
	}](t, resp)
	if len(errBody.Errors) != 1 || errBody.Errors[0] != "Phone number must be exactly 10 digits." {
		t.Fatalf("unexpected errors: %v", errBody.Errors)
	}

	// Accepted answer.
	resp = doRequest(t, http.MethodPost, server.URL+"/api/responses", map[string]any{
		"sessionId": testSession, "questionId": 1, "answerText": "1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	saved := decodeBody[struct {
		Success    bool  `json:"success"`
		ResponseID int64 `json:"responseId"`
	}](t, resp)
	if !saved.Success || saved.ResponseID == 0 {
		t.Fatalf("unexpected save result: %+v", saved)
	}
}

func TestGetResponsesBySession(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/responses/"+testSession, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for untouched session, got %d", resp.StatusCode)
	}

	saveAnswer(t, server, 1, "1")

	resp = doRequest(t, http.MethodGet, server.URL+"/api/responses/"+testSession, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	views := decodeBody[[]domain.ResponseView](t, resp)
	if len(views) != 1 || views[0].QuestionID != 1 || views[0].AnswerText != "1" {
		t.Fatalf("unexpected responses: %+v", views)
	}
}

func TestGetSummary(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/summary/not-a-uuid", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad session id, got %d", resp.StatusCode)
	}

	saveAnswer(t, server, 1, "1")

	resp = doRequest(t, http.MethodGet, server.URL+"/api/summary/"+testSession, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	summary := decodeBody[domain.Summary](t, resp)
	if len(summary.Items) != 1 {
		t.Fatalf("expected 1 summary item, got %d", len(summary.Items))
	}
	if summary.Items[0].UserAnswer == nil || *summary.Items[0].UserAnswer != "Paris" {
		t.Fatalf("expected resolved answer, got %+v", summary.Items[0])
	}
	if summary.Stats.Percentage != 100 {
		t.Fatalf("expected 100%%, got %v", summary.Stats.Percentage)
	}
}

func saveAnswer(t *testing.T, server *httptest.Server, questionID int64, answer string) {
	t.Helper()
	resp := doRequest(t, http.MethodPost, server.URL+"/api/responses", map[string]any{
		"sessionId": testSession, "questionId": questionID, "answerText": answer,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save answer %q for question %d: status %d", answer, questionID, resp.StatusCode)
	}
}
