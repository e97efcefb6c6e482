package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Audit  AuditConfig  `toml:"audit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// AuditConfig 稽核业务配置
// 车队/部署相关的取值（自有车辆名单、阈值、单号模式）全部走配置，
// 不编码进程序，便于跨车队部署。
type AuditConfig struct {
	HeaderProbeWindow     int      `toml:"header_probe_window"`
	IdentifierProfile     string   `toml:"identifier_profile"` // digits_3to6/colon_prefixed_digits/range_30xx_31xx
	IdentifierFormat      string   `toml:"identifier_format"`  // prefixed/raw
	VehicleMatchThreshold int      `toml:"vehicle_match_threshold"`
	UnmatchedVehicleScore int      `toml:"unmatched_vehicle_score"` // 宽松 50 / 严格 0
	OwnerVehicles         []string `toml:"owner_vehicles"`

	Indent SourceConfig `toml:"indent"`
	GPS    SourceConfig `toml:"gps"`
	Master SourceConfig `toml:"master"`
}

// SourceConfig 单个数据源的表头约定
type SourceConfig struct {
	HeaderSubstrings []string `toml:"header_substrings"`
	HeaderLevels     int      `toml:"header_levels"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20271,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Audit: AuditConfig{
			HeaderProbeWindow:     20,
			IdentifierProfile:     "digits_3to6",
			IdentifierFormat:      "prefixed",
			VehicleMatchThreshold: 90,
			UnmatchedVehicleScore: 50,
			OwnerVehicles:         []string{},
			Indent: SourceConfig{
				HeaderSubstrings: []string{"base link"},
				HeaderLevels:     1,
			},
			GPS: SourceConfig{
				HeaderSubstrings: []string{"vehicle", "distance"},
				HeaderLevels:     1,
			},
			Master: SourceConfig{
				HeaderSubstrings: []string{"vehicle"},
				HeaderLevels:     1,
			},
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
// 配置文件位于可执行文件同目录下；不存在时使用默认配置。
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
