package main

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
	"time"

	"DeliveryInsights/src/analytics"
	"DeliveryInsights/src/cache"
	"DeliveryInsights/src/config"
	"DeliveryInsights/src/datasource/file"
	"DeliveryInsights/src/metrics"
	"DeliveryInsights/src/processor"
	"DeliveryInsights/src/report"
	"DeliveryInsights/src/storage"

	"github.com/robfig/cron"
)

// app 串联配置、缓存、报表与指标
type app struct {
	cfg     *config.Config
	logger  *storage.Logger
	metrics *metrics.Registry
	gate    *cache.Gate
	filter  analytics.Filter
	closers []func() error
}

func newApp(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) (*app, error) {
	filter, err := analytics.FilterFromConfig(cfg.ReportFilter)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, metrics: metrics.NewRegistry(), filter: filter}
	store, err := a.newStore()
	if err != nil {
		return nil, err
	}

	source := file.Source{Path: cfg.RawPath, SheetName: cfg.SheetName, Encoding: cfg.SourceEncoding}
	pipeline := processor.NewPipeline(dcfg, logger, a.metrics)
	a.gate = cache.NewGate(store, cfg.Cache.Key, source, pipeline, logger, a.metrics)
	return a, nil
}

func (a *app) newStore() (cache.Store, error) {
	switch a.cfg.Cache.Backend {
	case config.BackendFile:
		return cache.NewFileStore(a.cfg.Cache.Path), nil
	case config.BackendPebble:
		store, err := cache.NewPebbleStore(a.cfg.Cache.PebbleDir)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case config.BackendMemory:
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, a.cfg.Cache.Backend)
	}
}

// build 读取(或重建)清洗结果，写出报表与指标
func (a *app) build(refresh bool) error {
	t1 := time.Now()

	load := a.gate.Load
	if refresh {
		load = a.gate.Refresh
	}
	orders, err := load()
	if err != nil {
		return err
	}

	if a.cfg.ReportPath != "" {
		if err := report.Write(a.cfg.ReportPath, orders, a.filter); err != nil {
			return err
		}
		a.logger.Info("报表已写出: " + a.cfg.ReportPath)
	}
	if a.cfg.MetricsPath != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsPath); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if err := a.logger.CheckRotate(a.cfg.LogMaxSize); err != nil {
		a.logger.Warning("日志轮转失败: " + err.Error())
	}
	a.logger.Info(fmt.Sprintf("数据处理时间：%v", time.Since(t1)))
	return nil
}

// rebuild 定时任务与文件监听共用，出错只记录日志
func (a *app) rebuild(reason string) {
	a.logger.Info("开始重建: " + reason)
	if err := a.build(true); err != nil {
		a.logger.Error("重建失败: " + err.Error())
	}
}

// serve 先构建一次，然后按定时任务和原始文件变化重建，直到收到退出信号
func (a *app) serve(sigChan <-chan os.Signal) error {
	if err := a.build(false); err != nil {
		return err
	}

	if a.cfg.PidFile != "" {
		if err := os.WriteFile(a.cfg.PidFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			return fmt.Errorf("write pid file: %w", err)
		}
		defer os.Remove(a.cfg.PidFile)
	}

	c := cron.New()
	if interval := time.Duration(a.cfg.Refresh.Interval); interval > 0 {
		cronSpec := fmt.Sprintf("@every %s", interval)
		if err := c.AddFunc(cronSpec, func() { a.rebuild("定时任务 " + cronSpec) }); err != nil {
			return fmt.Errorf("创建定时任务失败: %w", err)
		}
		c.Start()
		defer c.Stop()
		a.logger.Info(fmt.Sprintf("定时重建已启动(间隔: %v)", interval))
	}

	if a.cfg.Refresh.Watch {
		monitor, err := file.NewFileMonitor(a.cfg.RawPath)
		if err != nil {
			return fmt.Errorf("监听原始文件失败: %w", err)
		}
		defer monitor.Close()
		go func() {
			err := monitor.Watch(func(name string) { a.rebuild("文件变化 " + name) })
			if err != nil {
				a.logger.Error("File monitoring error:" + err.Error())
			}
		}()
	}

	for sig := range sigChan {
		switch sig {
		case syscall.SIGHUP:
			if err := a.logger.Reopen(a.cfg.LogName); err != nil {
				return fmt.Errorf("reopen log: %w", err)
			}
			a.logger.Info("日志文件已重新打开")
		default:
			a.logger.Info("Received signal: " + sig.String() + ", shutting down...")
			return nil
		}
	}
	return nil
}

func (a *app) Close() error {
	var first error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
