package reactive

type historyLog struct {
	limit   int
	records []ChangeRecord
}

func newHistoryLog(limit int) *historyLog {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &historyLog{limit: limit}
}

func (h *historyLog) append(record ChangeRecord) {
	h.records = append(h.records, record)
	if len(h.records) > h.limit {
		overflow := len(h.records) - h.limit
		h.records = append(h.records[:0:0], h.records[overflow:]...)
	}
}

// recent returns the most recent limit records in chronological order.
func (h *historyLog) recent(limit int) []ChangeRecord {
	if limit < 1 {
		limit = DefaultHistoryQuery
	}
	if limit > len(h.records) {
		limit = len(h.records)
	}
	out := make([]ChangeRecord, limit)
	copy(out, h.records[len(h.records)-limit:])
	return out
}

func (h *historyLog) clear() {
	h.records = nil
}

// History returns the most recent limit change records, oldest first. A
// non-positive limit requests DefaultHistoryQuery records. The log is
// diagnostic only: it retains at most the configured bound, evicting the
// oldest record first, and nothing inside the engine ever reads it back.
func (s *State) History(limit int) []ChangeRecord {
	return s.history.recent(limit)
}

// ClearHistory empties the change-record log.
func (s *State) ClearHistory() {
	s.history.clear()
}
