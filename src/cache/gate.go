package cache

import (
	"errors"
	"fmt"
	"sync"

	"DeliveryInsights/src/metrics"
	"DeliveryInsights/src/model"
	"DeliveryInsights/src/processor"
	"DeliveryInsights/src/storage"

	"github.com/go-gota/gota/dataframe"
)

// Source 原始数据来源
type Source interface {
	Read() (dataframe.DataFrame, error)
}

// Cleaner 把原始表清洗为订单
type Cleaner interface {
	Run(raw dataframe.DataFrame) ([]model.Order, processor.Stats, error)
}

// Gate 清洗结果的记忆化边界：先读快照，未命中时读取原始数据、清洗并保存。
// 快照从不被视为比原始数据更权威，原始数据变化后的过期问题不做处理
type Gate struct {
	store   Store
	key     string
	source  Source
	cleaner Cleaner
	logger  *storage.Logger
	metrics *metrics.Registry
	mu      sync.Mutex
}

// NewGate logger 与 reg 可以为 nil
func NewGate(store Store, key string, source Source, cleaner Cleaner, logger *storage.Logger, reg *metrics.Registry) *Gate {
	return &Gate{
		store:   store,
		key:     key,
		source:  source,
		cleaner: cleaner,
		logger:  logger,
		metrics: reg,
	}
}

// Load 返回清洗后的订单
func (g *Gate) Load() ([]model.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	data, err := g.store.Load(g.key)
	switch {
	case err == nil:
		orders, decodeErr := Decode(data)
		if decodeErr == nil {
			g.metrics.CacheHit()
			g.logger.Info(fmt.Sprintf("命中快照 %s: %d 行", g.key, len(orders)))
			return orders, nil
		}
		// 损坏的快照按未命中处理
		g.logger.Warning(fmt.Sprintf("快照 %s 无法解析，重新生成: %v", g.key, decodeErr))
	case errors.Is(err, ErrNotFound):
		g.logger.Info(fmt.Sprintf("快照 %s 不存在，重新生成", g.key))
	default:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	g.metrics.CacheMiss()
	return g.rebuild()
}

// Refresh 忽略现有快照，重新清洗并覆盖
func (g *Gate) Refresh() ([]model.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rebuild()
}

func (g *Gate) rebuild() ([]model.Order, error) {
	raw, err := g.source.Read()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	orders, _, err := g.cleaner.Run(raw)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}

	data, err := Encode(orders)
	if err != nil {
		return nil, err
	}
	if err := g.store.Save(g.key, data); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	g.logger.Info(fmt.Sprintf("快照 %s 已保存: %d 行", g.key, len(orders)))
	return orders, nil
}
