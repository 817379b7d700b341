package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrUnknownBackend 缓存后端名称无法识别
var ErrUnknownBackend = errors.New("unknown cache backend")

// 缓存后端
const (
	BackendFile   = "file"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	RawPath        string `json:"raw_path"`        // 原始数据文件(csv/xlsx)
	SheetName      string `json:"sheet_name"`      // xlsx 工作表名称，为空时取第一个
	SourceEncoding string `json:"source_encoding"` // 原始csv的字符集

	Cache struct {
		Backend   string `json:"backend"`    // file | pebble | memory
		Path      string `json:"path"`       // file 后端的快照路径
		PebbleDir string `json:"pebble_dir"` // pebble 后端的数据目录
		Key       string `json:"key"`        // 快照键
	} `json:"cache"`

	ReportPath  string `json:"report_path"`  // 报表xlsx输出路径
	MetricsPath string `json:"metrics_path"` // prometheus textfile 输出路径
	LogName     string `json:"log_name"`
	LogMaxSize  string `json:"log_max_size"`
	PidFile     string `json:"pid_file"` // serve 模式写入进程号，供 SIGHUP 工具读取

	Refresh struct {
		Interval Duration `json:"interval"` // 定时重建间隔，0 表示不定时
		Watch    bool     `json:"watch"`    // 监听原始文件变化
	} `json:"refresh"`

	ReportFilter ReportFilter `json:"report_filter"`
}

// ReportFilter 报表使用的筛选条件，对应看板侧边栏
type ReportFilter struct {
	From       string   `json:"from"` // 02-01-2006
	To         string   `json:"to"`
	MinAge     *float64 `json:"min_age"`
	MaxAge     *float64 `json:"max_age"`
	MinRating  *float64 `json:"min_rating"`
	MaxRating  *float64 `json:"max_rating"`
	Traffic    []string `json:"traffic"`
	Cities     []string `json:"cities"`
	OrderTypes []string `json:"order_types"`
	Festivals  []string `json:"festivals"`
}

// DataConfig 原始数据的列约定与取值修正
type DataConfig struct {
	Columns       map[string]string   `json:"columns"`        // 逻辑列名 -> 原始表头
	RenameColumns map[string]string   `json:"rename_columns"` // 原始表头修正
	ValueFixes    map[string]string   `json:"value_fixes"`    // 分类取值修正
	NullMarkers   []string            `json:"null_markers"`
	Categories    map[string][]string `json:"categories"` // 分类列的合法取值
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 数据配置可以缺省，缺省时使用内置列约定
	dataConfigData, err := readFile(dataConfigFile)
	if errors.Is(err, os.ErrNotExist) {
		dataConfigData = nil
	} else if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	return waitForResults(cfgChan, dcfgChan, errChan)
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		errChan <- err
		return
	}
	resultChan <- cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	dcfg := DefaultDataConfig()
	if data == nil {
		resultChan <- dcfg
		return
	}
	if err := json.Unmarshal(data, dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	resultChan <- dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg  *Config
		dcfg *DataConfig
		errs []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return fmt.Errorf("配置加载遇到多个错误: %w", errors.Join(errs...))
}

// DefaultConfig 返回与原看板相同的文件布局
func DefaultConfig() *Config {
	cfg := &Config{
		RawPath:        "./data/dataset_raw.csv",
		SourceEncoding: "utf-8",
		ReportPath:     "./data/report.xlsx",
		LogName:        "app.log",
		LogMaxSize:     "10 * 1024 * 1024",
	}
	cfg.Cache.Backend = BackendFile
	cfg.Cache.Path = "./data/dataset_clear.csv"
	cfg.Cache.PebbleDir = "./data/cache"
	cfg.Cache.Key = "dataset_clear"
	return cfg
}

// Validate 检查缓存后端配置
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path 不能为空")
		}
	case BackendPebble:
		if c.Cache.PebbleDir == "" {
			return fmt.Errorf("cache.pebble_dir 不能为空")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Cache.Backend)
	}
	if c.RawPath == "" {
		return fmt.Errorf("raw_path 不能为空")
	}
	return nil
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (dc *DataConfig) GetColumn(name string) string {
	mu.RLock()
	defer mu.RUnlock()
	if raw, ok := dc.Columns[name]; ok && raw != "" {
		return raw
	}
	return name
}

func (dc *DataConfig) GetCategories(column string) []string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.Categories[column]
}

// IsNullMarker 判断取值是否为空值标记
func (dc *DataConfig) IsNullMarker(v string) bool {
	mu.RLock()
	defer mu.RUnlock()
	for _, m := range dc.NullMarkers {
		if v == m {
			return true
		}
	}
	return false
}

// FixValue 修正已知的拼写错误
func (dc *DataConfig) FixValue(v string) string {
	mu.RLock()
	defer mu.RUnlock()
	if fixed, ok := dc.ValueFixes[v]; ok {
		return fixed
	}
	return v
}
