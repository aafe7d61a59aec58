package domain

type ChatMessage struct {
	User string
	Text string
}

// MarkerDetail is fetched lazily when a marker panel opens and on every poll.
type MarkerDetail struct {
	Title       string
	Description string
	// Chat is oldest first.
	Chat []ChatMessage
}

// SameChat reports whether two chat transcripts carry the same messages in
// the same order.
func SameChat(a, b []ChatMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
