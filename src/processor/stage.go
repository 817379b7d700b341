package processor

// Stats 一次清洗的计数
type Stats struct {
	RowsRead    int
	RowsDropped int
	RowsKept    int
	Rollovers   int            // 取货时间跨零点顺延一天的行数
	Imputed     map[string]int // 按列统计的填补次数
	NonFinite   int            // 用时为 0 导致速度非有限的行数
}

func (s *Stats) imputed(column string) {
	if s.Imputed == nil {
		s.Imputed = make(map[string]int)
	}
	s.Imputed[column]++
}

// Batch 在各阶段之间传递的行集合
type Batch struct {
	Rows  []*Row
	Stats Stats
}

// Stage 清洗流程中一个可单独测试的步骤
type Stage interface {
	Name() string
	Process(b *Batch) error
}
