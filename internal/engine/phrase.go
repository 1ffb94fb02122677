package engine

// PhraseBeats is how many beats make up one phrase: one bar of music,
// one bar of rest. Not user-configurable.
const PhraseBeats = 4

// Audible reports whether the phrase containing tick index is an audible
// one. Phrases span subdivision*4 ticks and alternate audible/silent,
// starting audible at tick 0.
func Audible(index int64, sub Subdivision) bool {
	phrase := index / (int64(sub) * PhraseBeats)
	return phrase%2 == 0
}

// IsClick reports whether tick index lands on a metronome click: one
// click per beat, independent of phrase audibility and period state.
func IsClick(index int64, sub Subdivision) bool {
	return index%int64(sub) == 0
}
