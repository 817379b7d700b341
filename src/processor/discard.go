package processor

// MaxMissing 每行允许缺失的字段数，超过则整行丢弃
const MaxMissing = 2

// Discarder 丢弃缺失过多、无法修复的行
type Discarder struct {
	MaxMissing int
}

func (d Discarder) Name() string { return "discard" }

func (d Discarder) Process(b *Batch) error {
	kept := b.Rows[:0]
	for _, r := range b.Rows {
		if r.Missing() > d.MaxMissing {
			b.Stats.RowsDropped++
			continue
		}
		kept = append(kept, r)
	}
	b.Rows = kept
	return nil
}
