package domain

import "math/rand"

// WordPool holds every submitted word for the game and the round-local hat
// that words are drawn from.
type WordPool struct {
	all []string
	hat []string
	rng *rand.Rand
}

// NewWordPool creates an empty pool drawing with rng
func NewWordPool(rng *rand.Rand) *WordPool {
	return &WordPool{rng: rng}
}

// Build concatenates every player's submitted words into the full pool
func (wp *WordPool) Build(players []*Player) {
	wp.all = wp.all[:0]
	for _, p := range players {
		wp.all = append(wp.all, p.Words...)
	}
	wp.hat = nil
}

// StartRound refills the hat from the full pool and shuffles it
func (wp *WordPool) StartRound() {
	wp.hat = make([]string, len(wp.all))
	copy(wp.hat, wp.all)
	wp.rng.Shuffle(len(wp.hat), func(i, j int) {
		wp.hat[i], wp.hat[j] = wp.hat[j], wp.hat[i]
	})
}

// Draw removes and returns a random word from the hat
func (wp *WordPool) Draw() (string, error) {
	if len(wp.hat) == 0 {
		return "", ErrPoolEmpty
	}
	i := wp.rng.Intn(len(wp.hat))
	word := wp.hat[i]
	last := len(wp.hat) - 1
	wp.hat[i] = wp.hat[last]
	wp.hat = wp.hat[:last]
	return word, nil
}

// Skip puts a drawn but unresolved word back into the hat so it can be
// drawn again later in the same round
func (wp *WordPool) Skip(word string) {
	wp.hat = append(wp.hat, word)
}

// Size returns the number of words left in the hat
func (wp *WordPool) Size() int {
	return len(wp.hat)
}

// Total returns the number of words in the full pool
func (wp *WordPool) Total() int {
	return len(wp.all)
}

// Empty reports whether the hat has run out
func (wp *WordPool) Empty() bool {
	return len(wp.hat) == 0
}
