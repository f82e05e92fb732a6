package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artkel/gcp-guru/internal/model"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, time.Second, zerolog.Nop())
}

func TestGetRandomQuestionSendsTags(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/questions/random" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		tags := r.URL.Query()["tags"]
		if len(tags) != 2 || tags[0] != "Storage" || tags[1] != "Networking" {
			t.Fatalf("unexpected tags %v", tags)
		}
		if err := json.NewEncoder(w).Encode(map[string]any{
			"question_number": 12,
			"question_text":   "pick one",
			"answers": map[string]any{
				"a": map[string]any{"answer_text": "no", "status": "incorrect"},
				"b": map[string]any{"answer_text": "yes", "status": "correct"},
			},
		}); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	})

	q, err := client.GetRandomQuestion(context.Background(), []string{"Storage", "Networking"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Number != 12 || len(q.Answers) != 2 {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestGetRandomQuestionExhausted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
		if _, err := w.Write([]byte(`{"detail": "All questions answered for the selected tags"}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	})

	_, err := client.GetRandomQuestion(context.Background(), nil)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestGetQuestionNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte(`{"detail": "Question not found"}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	})

	_, err := client.GetQuestion(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServerErrorCarriesStatusAndDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"detail": "boom"}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	})

	_, err := client.GetTags(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Detail != "boom" {
		t.Fatalf("unexpected error payload: %+v", apiErr)
	}
}

func TestSubmitAnswerBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/questions/12/answer" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var body struct {
			SelectedAnswers    []string `json:"selected_answers"`
			RequestExplanation bool     `json:"request_explanation"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(body.SelectedAnswers) != 1 || body.SelectedAnswers[0] != "b" {
			t.Fatalf("unexpected selection %v", body.SelectedAnswers)
		}
		if body.RequestExplanation {
			t.Fatalf("explanation not requested")
		}
		if err := json.NewEncoder(w).Encode(map[string]any{
			"question":        map[string]any{"question_number": 12},
			"is_correct":      true,
			"correct_answers": []string{"b"},
		}); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	})

	result, err := client.SubmitAnswer(context.Background(), 12, []string{"b"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsCorrect || len(result.CorrectAnswers) != 1 || result.CorrectAnswers[0] != "b" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestToggleStarQueryParam(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/questions/7/star" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("starred"); got != "true" {
			t.Fatalf("expected starred=true, got %q", got)
		}
		if _, err := w.Write([]byte(`{"success": true, "starred": true}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	})

	starred, err := client.ToggleStar(context.Background(), 7, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !starred {
		t.Fatalf("expected confirmed starred=true")
	}
}

func TestUpdateNoteQueryParam(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("note"); got != "review IAM roles" {
			t.Fatalf("unexpected note %q", got)
		}
		if _, err := w.Write([]byte(`{"success": true, "note": "review IAM roles"}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	})

	note, err := client.UpdateNote(context.Background(), 7, "review IAM roles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note != "review IAM roles" {
		t.Fatalf("expected confirmed note, got %q", note)
	}
}

func TestListQuestionsFilterParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if got := query.Get("search"); got != "bucket" {
			t.Fatalf("unexpected search %q", got)
		}
		if got := query.Get("starred_only"); got != "true" {
			t.Fatalf("unexpected starred_only %q", got)
		}
		if got := query["tags"]; len(got) != 1 || got[0] != "Storage" {
			t.Fatalf("unexpected tags %v", got)
		}
		if _, err := w.Write([]byte(`[{"question_number": 3}]`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	})

	questions, err := client.ListQuestions(context.Background(), model.ListFilter{
		Tags:        []string{"Storage"},
		Search:      "bucket",
		StarredOnly: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 || questions[0].Number != 3 {
		t.Fatalf("unexpected questions %+v", questions)
	}
}

func TestGetExplanationRegenerate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("regenerate"); got != "true" {
			t.Fatalf("expected regenerate=true, got %q", got)
		}
		if _, err := w.Write([]byte(`{"explanation": "fresh take"}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	})

	text, err := client.GetExplanation(context.Background(), 12, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "fresh take" {
		t.Fatalf("unexpected explanation %q", text)
	}
}

func TestResetProgressBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/progress/reset" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var opts model.ResetOptions
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if !opts.Scores || !opts.Stars || opts.Notes {
			t.Fatalf("unexpected options %+v", opts)
		}
		w.WriteHeader(http.StatusOK)
	})

	err := client.ResetProgress(context.Background(), model.ResetOptions{Scores: true, Stars: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
