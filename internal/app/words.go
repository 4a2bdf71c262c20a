package app

import (
	"math/rand"
	"strings"
)

// SuggestionWords is a curated list of nouns and phrases that are fun to
// describe, say in one word and act out
var SuggestionWords = []string{
	// Everyday things
	"toothbrush", "umbrella", "alarm clock", "backpack", "ladder",
	"candle", "sandwich", "suitcase", "doorbell", "pillow fight",
	"remote control", "traffic light", "shopping cart", "bubble bath", "lawn mower",

	// Animals
	"penguin", "giraffe", "kangaroo", "octopus", "flamingo",
	"hedgehog", "jellyfish", "peacock", "sloth", "woodpecker",

	// Places
	"lighthouse", "bakery", "airport", "haunted house", "waterpark",
	"library", "volcano", "igloo", "circus", "submarine",

	// Activities
	"skydiving", "karaoke", "juggling", "yoga", "fishing",
	"knitting", "surfing", "sleepwalking", "tightrope", "snowball fight",

	// Characters
	"pirate", "astronaut", "vampire", "mermaid", "detective",
	"wizard", "ninja", "cowboy", "superhero", "zombie",

	// Food
	"spaghetti", "popcorn", "birthday cake", "pineapple", "hot dog",
	"pancake", "watermelon", "ice cream", "fortune cookie", "cotton candy",

	// Ideas
	"gravity", "deja vu", "jet lag", "time travel", "first date",
	"homework", "vacation", "nightmare", "rush hour", "treasure hunt",
}

// SuggestWords returns up to n distinct suggestions, skipping any word in
// exclude (case-insensitive)
func SuggestWords(rng *rand.Rand, n int, exclude []string) []string {
	excludeMap := make(map[string]bool, len(exclude))
	for _, w := range exclude {
		excludeMap[strings.ToLower(strings.TrimSpace(w))] = true
	}

	words := make([]string, 0, n)
	for _, i := range rng.Perm(len(SuggestionWords)) {
		if len(words) == n {
			break
		}
		word := SuggestionWords[i]
		if excludeMap[word] {
			continue
		}
		words = append(words, word)
	}
	return words
}
