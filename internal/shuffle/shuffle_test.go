package shuffle

import (
	"reflect"
	"sort"
	"testing"

	"github.com/artkel/gcp-guru/internal/model"
)

func questionWithAnswers(number int, ids ...string) *model.Question {
	answers := make(map[string]model.Answer, len(ids))
	for _, id := range ids {
		answers[id] = model.Answer{Text: id, Status: model.AnswerIncorrect}
	}
	return &model.Question{Number: number, Answers: answers}
}

func TestOrderOffIsLexical(t *testing.T) {
	q := questionWithAnswers(12, "c", "a", "b")
	got := Order(q, false)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected lexical order, got %v", got)
	}
}

func TestOrderStablePerQuestion(t *testing.T) {
	q := questionWithAnswers(12, "a", "b", "c", "d", "e")
	first := Order(q, true)
	for i := 0; i < 10; i++ {
		if got := Order(q, true); !reflect.DeepEqual(got, first) {
			t.Fatalf("redraw %d changed the order: %v vs %v", i, got, first)
		}
	}
}

func TestOrderIsPermutation(t *testing.T) {
	q := questionWithAnswers(7, "a", "b", "c", "d")
	got := Order(q, true)
	sorted := append([]string(nil), got...)
	sort.Strings(sorted)
	if !reflect.DeepEqual(sorted, []string{"a", "b", "c", "d"}) {
		t.Fatalf("shuffled order must be a permutation, got %v", got)
	}
}

func TestOrderDiffersAcrossQuestions(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	base := Order(questionWithAnswers(1, ids...), true)
	for number := 2; number <= 50; number++ {
		got := Order(questionWithAnswers(number, ids...), true)
		if !reflect.DeepEqual(got, base) {
			return
		}
	}
	t.Fatalf("50 distinct questions produced the same order %v", base)
}

func TestOrderSingleAnswerUntouched(t *testing.T) {
	q := questionWithAnswers(3, "a")
	if got := Order(q, true); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("expected [a], got %v", got)
	}
}
