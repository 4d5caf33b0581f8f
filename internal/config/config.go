package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	TurnTime        int `yaml:"turn_time"`         // 回合时限（秒），仅透传给客户端展示
	InitialHandSize int `yaml:"initial_hand_size"` // 起手牌数
	ScoreLimit      int `yaml:"score_limit"`       // 罚分上限，达到后整局结束
}

// TurnTimeDuration 返回回合时限时长
func (c *GameConfig) TurnTimeDuration() time.Duration {
	return time.Duration(c.TurnTime) * time.Second
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 设置默认值
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1791
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.TurnTime == 0 {
		cfg.Game.TurnTime = 30
	}
	if cfg.Game.InitialHandSize == 0 {
		cfg.Game.InitialHandSize = 5
	}
	if cfg.Game.ScoreLimit == 0 {
		cfg.Game.ScoreLimit = 100
	}

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 1791,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			TurnTime:        30,
			InitialHandSize: 5,
			ScoreLimit:      100,
		},
	}
}
