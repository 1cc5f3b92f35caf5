package config

// Config 配置文件结构
type Config struct {
	Version string `json:"version" yaml:"version"`
	// AutoPush is the default auto-push flag for newly enabled files.
	AutoPush   bool         `json:"auto_push" yaml:"auto_push"`
	WIPPrefix  string       `json:"wip_prefix,omitempty" yaml:"wip_prefix,omitempty"`
	Remote     string       `json:"remote,omitempty" yaml:"remote,omitempty"`
	DebounceMS int          `json:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty"`
	UsePTY     *bool        `json:"use_pty,omitempty" yaml:"use_pty,omitempty"`
	Files      []FileConfig `json:"files" yaml:"files"`
}

// FileConfig 单个文件的配置；出现在 Files 中即表示已启用
type FileConfig struct {
	Path string `json:"path" yaml:"path"`
	// AutoPush overrides Config.AutoPush when set.
	AutoPush  *bool `json:"auto_push,omitempty" yaml:"auto_push,omitempty"`
	WIPBranch bool  `json:"wip_branch,omitempty" yaml:"wip_branch,omitempty"`
}

// Manager 配置管理器接口
type Manager interface {
	// Load 加载配置文件
	Load() (*Config, error)

	// Save 保存配置文件（原子操作）
	Save(config *Config) error

	// CreateDefaultConfig 创建默认配置
	CreateDefaultConfig() error

	// UpdateFile 新增或替换指定文件的配置
	UpdateFile(file FileConfig) error

	// RemoveFile 删除指定文件的配置，返回是否存在
	RemoveFile(path string) (bool, error)
}
