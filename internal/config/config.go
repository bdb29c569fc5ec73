package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Log         LogConfig         `mapstructure:"log"`
	AzureOpenAI AzureOpenAIConfig `mapstructure:"azure_openai"`
	Redis       RedisConfig       `mapstructure:"redis"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store"`
	RAG         RagConfig         `mapstructure:"rag"`
	Auth        AuthConfig        `mapstructure:"auth"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"` // debug, release, test
	ReadTimeout  int      `mapstructure:"read_timeout"`
	WriteTimeout int      `mapstructure:"write_timeout"`
	CORSOrigins  []string `mapstructure:"cors_origins"` // 允许跨域的前端来源
}

// DatabaseConfig 数据库配置（账号与聊天记录存储）
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres, sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	Path            string `mapstructure:"path"` // sqlite 文件路径
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, /path/to/log
}

// AzureOpenAIConfig Azure OpenAI 服务配置
// 嵌入模型与生成模型共用同一个端点，分别使用各自的 deployment 名称。
type AzureOpenAIConfig struct {
	Endpoint            string `mapstructure:"endpoint"`
	APIKey              string `mapstructure:"api_key"`
	APIVersion          string `mapstructure:"api_version"`
	EmbeddingDeployment string `mapstructure:"embedding_deployment"`
	ChatDeployment      string `mapstructure:"chat_deployment"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
}

// RedisConfig 网络化向量存储（Redis + RediSearch）配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// 托管 Redis（如 Azure Cache）通常要求 TLS
	TLS bool `mapstructure:"tls"`
	// 仅用于私有网络中自签名证书的场合，默认验证证书
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`

	PoolSize       int `mapstructure:"pool_size"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// VectorStoreConfig 向量存储配置
type VectorStoreConfig struct {
	IndexName string `mapstructure:"index_name"` // 网络后端索引名称
	LocalDir  string `mapstructure:"local_dir"`  // 本地文件后端目录
	Dimension int    `mapstructure:"dimension"`  // 向量维度
}

// RagConfig 文档分块与检索配置
type RagConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	TopK         int `mapstructure:"top_k"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	SecretKey   string `mapstructure:"secret_key"`
	Issuer      string `mapstructure:"issuer"`
	ExpiryHours int    `mapstructure:"expiry_hours"` // 默认一周
}

var globalConfig *Config

// Load 加载配置
// env: 环境名称（dev, prod, test）
// configPath: 配置文件路径（可选）
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		v.SetConfigName(env) // dev.yaml, prod.yaml
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
		v.AddConfigPath("../../config")
	} else {
		v.SetConfigFile(configPath)
	}

	v.SetConfigType("yaml")

	// 读取环境变量（优先级高于配置文件）
	v.SetEnvPrefix("APP") // 环境变量前缀：APP_
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 支持嵌套配置：APP_REDIS_HOST

	setDefaults(v)

	// 配置文件可选：纯环境变量部署（容器）时允许缺省
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// setDefaults 设置各项配置的默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 60)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.cors_origins", []string{
		"https://knowledge-assistant-rag.vercel.app",
		"http://localhost:3000",
	})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "")
	v.SetDefault("database.path", "./data/app.db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "stdout")

	// 凭据类配置默认为空，但必须注册默认值，
	// 否则 viper 的 AutomaticEnv 在 Unmarshal 时不会带出对应环境变量
	v.SetDefault("azure_openai.endpoint", "")
	v.SetDefault("azure_openai.api_key", "")
	v.SetDefault("azure_openai.embedding_deployment", "")
	v.SetDefault("azure_openai.chat_deployment", "")
	v.SetDefault("azure_openai.api_version", "2025-01-01-preview")
	v.SetDefault("azure_openai.timeout_seconds", 60)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.port", 6380)
	v.SetDefault("redis.tls", true)
	v.SetDefault("redis.insecure_skip_verify", false)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.timeout_seconds", 5)

	v.SetDefault("vector_store.index_name", "rag-index")
	v.SetDefault("vector_store.local_dir", "./vector_db")
	v.SetDefault("vector_store.dimension", 1536)

	v.SetDefault("rag.chunk_size", 500)
	v.SetDefault("rag.chunk_overlap", 50)
	v.SetDefault("rag.top_k", 4)

	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.issuer", "knowledge-assistant")
	v.SetDefault("auth.expiry_hours", 24*7)
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("配置未初始化，请先调用 Load()")
	}
	return globalConfig
}

// Addr 返回 Redis 连接地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetDSN 获取 PostgreSQL 连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
