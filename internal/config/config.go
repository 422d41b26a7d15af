// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置
type MainConfig struct {
	AppName     string `toml:"appName"`     // 应用名称
	Host        string `toml:"host"`        // 监听地址，如 "0.0.0.0"
	Port        int    `toml:"port"`        // 监听端口，如 8000
	Mode        string `toml:"mode"`        // 运行模式：dev / release，影响日志输出与 gin 模式
	TlsRedirect bool   `toml:"tlsRedirect"` // 是否启用 HTTP -> HTTPS 重定向（由 Nginx 终止 TLS 时关闭）
}

// DatabaseConfig 关系型数据库连接配置
// Driver 支持 mysql（默认）、postgres、sqlite
type DatabaseConfig struct {
	Driver       string `toml:"driver"`       // 数据库驱动
	Host         string `toml:"host"`         // 服务器地址
	Port         int    `toml:"port"`         // 端口
	User         string `toml:"user"`         // 用户名
	Password     string `toml:"password"`     // 密码
	DatabaseName string `toml:"databaseName"` // 数据库名；sqlite 时为文件路径
	SSLMode      string `toml:"sslMode"`      // 仅 postgres 使用
	AutoMigrate  bool   `toml:"autoMigrate"`  // 启动时是否自动迁移表结构
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Password    string `toml:"password"`
	Db          int    `toml:"db"`
	WorkerNum   int    `toml:"workerNum"`   // 异步缓存任务 Worker 数量
	TaskChanCap int    `toml:"taskChanCap"` // 异步缓存任务缓冲区大小
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig Kafka 配置
// MessageMode 为 "channel" 时入站事件在连接的读协程内直接分发；
// 为 "kafka" 时先写入 ChatTopic，再由消费协程按连接顺序分发
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"`
	HostPort    string        `toml:"hostPort"`  // 如 "localhost:9092"
	ChatTopic   string        `toml:"chatTopic"` // 入站事件主题
	GroupID     string        `toml:"groupId"`   // 消费者组，每个实例需唯一
	Timeout     time.Duration `toml:"timeout"`   // 读写超时（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 节点 ID，范围 0-1023
}

// WsConfig WebSocket 连接参数
type WsConfig struct {
	ReadBufferSize  int           `toml:"readBufferSize"`
	WriteBufferSize int           `toml:"writeBufferSize"`
	SendBufferSize  int           `toml:"sendBufferSize"` // 每个连接待发送事件的缓冲数量
	MaxMessageSize  int64         `toml:"maxMessageSize"` // 单帧最大字节数
	WriteWait       time.Duration `toml:"writeWait"`      // 单次写超时（秒）
	PongWait        time.Duration `toml:"pongWait"`       // 等待 pong 的超时（秒）
}

// Config 应用程序总配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	WsConfig        `toml:"wsConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件，找到第一个可用的即停止
func LoadConfig(conf *Config) error {
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml", // 从 cmd/<bin> 运行时的路径
		"../../configs/config.toml",
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, conf); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// Default 返回填充了默认值的配置，测试和找不到配置文件时使用
func Default() *Config {
	conf := new(Config)
	conf.applyDefaults()
	return conf
}

// applyDefaults 给未配置的字段填默认值
func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "umazing_chat_server"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.DatabaseConfig.Driver == "" {
		c.DatabaseConfig.Driver = "mysql"
	}
	if c.RedisConfig.WorkerNum == 0 {
		c.RedisConfig.WorkerNum = 15
	}
	if c.RedisConfig.TaskChanCap == 0 {
		c.RedisConfig.TaskChanCap = 3000
	}
	if c.LogPath == "" {
		c.LogPath = "./logs"
	}
	if c.MessageMode == "" {
		c.MessageMode = "channel"
	}
	if c.ChatTopic == "" {
		c.ChatTopic = "chat_inbound"
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 60 * 24
	}
	if c.RefreshTokenExpiry == 0 {
		c.RefreshTokenExpiry = 168
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = 2048
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = 2048
	}
	if c.SendBufferSize == 0 {
		c.SendBufferSize = 256
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 64 * 1024
	}
	if c.WriteWait == 0 {
		c.WriteWait = 10
	}
	if c.PongWait == 0 {
		c.PongWait = 60
	}
}

// GetConfig 获取全局配置实例（单例）
// 首次调用时加载配置文件，加载失败时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig(config)
		config.applyDefaults()
	}
	return config
}
