package config

import (
	"sync"

	"github.com/BurntSushi/toml"
)

// MainConfig 服务主配置
type MainConfig struct {
	AppName     string `toml:"appName"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	JwtSecret   string `toml:"jwtSecret"`
	TokenExpiry int    `toml:"tokenExpiry"`   // Access Token 有效期（分钟）
	RefreshHour int    `toml:"refreshExpiry"` // Refresh Token 有效期（小时）
}

// MysqlConfig mysql 配置
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig redis 配置
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LogConfig 日志配置
type LogConfig struct {
	LogPath    string `toml:"logPath"`
	Level      string `toml:"level"`
	MaxSize    int    `toml:"maxSize"` // 单个日志文件最大体积，单位 MB
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"` // 日志保留天数
	Compress   bool   `toml:"compress"`
}

// KafkaConfig kafka 配置，Enabled 为 false 时走进程内通道
type KafkaConfig struct {
	Enabled     bool   `toml:"enabled"`
	MessageMode string `toml:"messageMode"`
	HostPort    string `toml:"hostPort"`
	Topic       string `toml:"topic"`
	Partition   int    `toml:"partition"`
	Timeout     int    `toml:"timeout"` // 秒
}

// SnowflakeConfig 分布式 ID 生成器配置
type SnowflakeConfig struct {
	GeneratorId int64 `toml:"generatorId"` // 取值范围 [0, 31]，每个实例必须唯一
}

type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
}

var (
	config     *Config
	configOnce sync.Once
	loadErr    error
)

// 配置文件查找路径，按顺序尝试
var configPaths = []string{
	"configs/config.toml",
	"../configs/config.toml",
	"../../configs/config.toml",
	"/etc/nova_chat_server/config.toml",
}

// LoadConfig 加载配置文件，只会实际执行一次
func LoadConfig() (*Config, error) {
	configOnce.Do(func() {
		var conf Config
		for _, path := range configPaths {
			if _, err := toml.DecodeFile(path, &conf); err == nil {
				config = &conf
				return
			} else {
				loadErr = err
			}
		}
	})
	if config == nil {
		return nil, loadErr
	}
	return config, nil
}

// GetConfig 获取配置单例，必须先调用 LoadConfig
func GetConfig() *Config {
	return config
}
