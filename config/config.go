package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Upload UploadConfig `mapstructure:"upload"`
	Canvas CanvasConfig `mapstructure:"canvas"`
	Detect DetectConfig `mapstructure:"detect"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// CanvasConfig 项目画布约束。MaxPixels 在解码前拦截超大输入，
// 引擎本身不做任何容量限制。
type CanvasConfig struct {
	DefaultWidth  int `mapstructure:"default_width"`
	DefaultHeight int `mapstructure:"default_height"`
	MaxPixels     int `mapstructure:"max_pixels"`
}

type DetectConfig struct {
	MaxDim        int  `mapstructure:"max_dim"`
	MaxConcurrent int  `mapstructure:"max_concurrent"`
	QueueTimeout  int  `mapstructure:"queue_timeout"`
	KernelSize    int  `mapstructure:"kernel_size"`
	Enabled       bool `mapstructure:"enabled"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，返回默认配置
		return getDefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Duration(0))

	v.SetDefault("upload.max_size", 20*1024*1024)
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/jpg"})

	v.SetDefault("canvas.default_width", 1024)
	v.SetDefault("canvas.default_height", 1024)
	v.SetDefault("canvas.max_pixels", 64*1024*1024)

	v.SetDefault("detect.max_dim", 1200)
	v.SetDefault("detect.max_concurrent", 3)
	v.SetDefault("detect.queue_timeout", 30)
	v.SetDefault("detect.kernel_size", 3)
	v.SetDefault("detect.enabled", true)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      0,
		},
		Upload: UploadConfig{
			MaxSize:      20 * 1024 * 1024,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg"},
		},
		Canvas: CanvasConfig{
			DefaultWidth:  1024,
			DefaultHeight: 1024,
			MaxPixels:     64 * 1024 * 1024,
		},
		Detect: DetectConfig{
			MaxDim:        1200,
			MaxConcurrent: 3,
			QueueTimeout:  30,
			KernelSize:    3,
			Enabled:       true,
		},
	}
}
