package console

// History keeps submitted commands, oldest first, and a browse position.
type History struct {
	entries []string
	limit   int
	pos     int // len(entries) when not browsing
	draft   string
}

// NewHistory creates a history holding at most limit entries; zero keeps
// nothing.
func NewHistory(limit int) *History {
	return &History{limit: max(limit, 0)}
}

// Add appends cmd unless it is empty or repeats the last entry, and ends
// browsing.
func (h *History) Add(cmd string) {
	defer h.reset()
	if cmd == "" || h.limit == 0 {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]string(nil), h.entries[over:]...)
	}
}

// Prev steps back from current, the buffer being edited, and returns the
// entry to show.
func (h *History) Prev(current string) (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	if h.pos == len(h.entries) {
		h.draft = current
	}
	h.pos--
	return h.entries[h.pos], true
}

// Next steps forward; past the newest entry it returns the saved draft.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// Entries returns a copy of the stored commands.
func (h *History) Entries() []string { return append([]string(nil), h.entries...) }

func (h *History) reset() {
	h.pos = len(h.entries)
	h.draft = ""
}
