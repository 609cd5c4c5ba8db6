package transition

// Stats counts what a run did. Every operation returns its own Stats and the
// caller folds them with Add.
type Stats struct {
	Files        int
	Dirs         int
	Locked       int
	Unlocked     int
	Skipped      int
	Failed       int
	BytesRead    int64
	BytesWritten int64
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Files:        s.Files + o.Files,
		Dirs:         s.Dirs + o.Dirs,
		Locked:       s.Locked + o.Locked,
		Unlocked:     s.Unlocked + o.Unlocked,
		Skipped:      s.Skipped + o.Skipped,
		Failed:       s.Failed + o.Failed,
		BytesRead:    s.BytesRead + o.BytesRead,
		BytesWritten: s.BytesWritten + o.BytesWritten,
	}
}
