package insight

// interrogation is the token that cancels a negation found right before it,
// as in "she is lovely, no?".
const interrogation = "?"

// negated reports whether a negation prefix in the context of tokens[pos]
// inverts its polarity.
//
// Two cursors walk away from pos in lock-step, one forward and one backward.
// A cursor stops at the end of the sequence, at a split word, or at a token
// that carries dictionary meaning of its own; whatever lies beyond such a
// boundary belongs to another part of the sentence. The scan ends on the
// first negation prefix found or when both cursors have stopped.
func (m *Model) negated(tokens []string, pos int) bool {
	if m.negations.Len() == 0 {
		return false
	}

	fwd, back := pos+1, pos-1
	fwdActive, backActive := true, true

	for fwdActive || backActive {
		if fwdActive {
			switch {
			case fwd >= len(tokens) || m.isBoundary(tokens[fwd]):
				fwdActive = false
			case m.negations.Match(tokens[fwd]) && !followedBy(tokens, fwd, interrogation):
				return true
			default:
				fwd++
			}
		}

		if backActive {
			switch {
			case back < 0 || m.isBoundary(tokens[back]):
				backActive = false
			case m.negations.Match(tokens[back]):
				return true
			default:
				back--
			}
		}
	}
	return false
}

// isBoundary reports whether token ends the negation context: a split word
// or any word the dictionary knows.
func (m *Model) isBoundary(token string) bool {
	if _, found := m.splitWords[token]; found {
		return true
	}
	return m.dictionary.Contains(token)
}

func followedBy(tokens []string, pos int, next string) bool {
	return pos+1 < len(tokens) && tokens[pos+1] == next
}
