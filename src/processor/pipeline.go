package processor

import (
	"fmt"
	"time"

	"DeliveryInsights/src/config"
	"DeliveryInsights/src/metrics"
	"DeliveryInsights/src/model"
	"DeliveryInsights/src/storage"

	"github.com/go-gota/gota/dataframe"
)

// Pipeline 原始表 -> 规范化 -> 丢弃 -> 时间 -> 坐标 -> 填补 -> 派生
type Pipeline struct {
	normalizer *Normalizer
	stages     []Stage
	logger     *storage.Logger
	metrics    *metrics.Registry
}

// NewPipeline logger 与 reg 可以为 nil
func NewPipeline(data *config.DataConfig, logger *storage.Logger, reg *metrics.Registry) *Pipeline {
	return &Pipeline{
		normalizer: NewNormalizer(data),
		stages: []Stage{
			Discarder{MaxMissing: MaxMissing},
			TemporalResolver{},
			GeoNormalizer{},
			Imputer{},
			Deriver{},
		},
		logger:  logger,
		metrics: reg,
	}
}

// Stages 按执行顺序返回各阶段
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Run 清洗原始表；只有缺少必需列时报错
func (p *Pipeline) Run(raw dataframe.DataFrame) ([]model.Order, Stats, error) {
	start := time.Now()

	rows, err := p.normalizer.Rows(raw)
	if err != nil {
		return nil, Stats{}, err
	}
	b := &Batch{Rows: rows, Stats: Stats{RowsRead: len(rows)}}

	for _, stage := range p.stages {
		stageStart := time.Now()
		if err := stage.Process(b); err != nil {
			return nil, b.Stats, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		p.logger.Debug(fmt.Sprintf("清洗阶段 %s 完成: %d 行, 用时 %s", stage.Name(), len(b.Rows), time.Since(stageStart)))
	}
	b.Stats.RowsKept = len(b.Rows)

	orders := make([]model.Order, len(b.Rows))
	for i, r := range b.Rows {
		orders[i] = r.Order()
	}

	elapsed := time.Since(start)
	p.logger.Info(fmt.Sprintf("清洗完成: 读取 %d 行, 丢弃 %d 行, 保留 %d 行, 跨日 %d 行, 用时 %s",
		b.Stats.RowsRead, b.Stats.RowsDropped, b.Stats.RowsKept, b.Stats.Rollovers, elapsed))
	if b.Stats.NonFinite > 0 {
		p.logger.Warning(fmt.Sprintf("%d 行用时为 0，速度为非有限值", b.Stats.NonFinite))
	}
	p.metrics.ObserveRun(metrics.Run{
		Read:      b.Stats.RowsRead,
		Dropped:   b.Stats.RowsDropped,
		Kept:      b.Stats.RowsKept,
		NonFinite: b.Stats.NonFinite,
		Imputed:   b.Stats.Imputed,
		Seconds:   elapsed.Seconds(),
	})

	return orders, b.Stats, nil
}
