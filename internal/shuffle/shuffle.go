// Package shuffle decides the display order of answer options.
package shuffle

import (
	"math/rand"

	"github.com/artkel/gcp-guru/internal/model"
)

// Order returns the answer ids of q in display order. With shuffling off
// the order is lexical. With shuffling on the order is a permutation
// seeded by the question number, so redraws of the same question are
// stable while different questions differ.
func Order(q *model.Question, shuffled bool) []string {
	ids := q.AnswerIDs()
	if !shuffled || len(ids) < 2 {
		return ids
	}
	rnd := rand.New(rand.NewSource(int64(q.Number)))
	rnd.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}
