package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type SyncerConfig struct {
	LogConfig       LogConfig       `json:"log_config"`
	DBConfig        DBConfig        `json:"db_config"`
	ChainConfig     ChainConfig     `json:"chain_config"`
	DisperserConfig DisperserConfig `json:"disperser_config"`
	MetricsConfig   MetricsConfig   `json:"metrics_config"`
	ServerConfig    ServerConfig    `json:"server_config"`
	CacheConfig     CacheConfig     `json:"cache_config"`
}

func (s *SyncerConfig) Validate() {
	s.LogConfig.Validate()
	s.DBConfig.Validate()
	s.ChainConfig.Validate()
	s.DisperserConfig.Validate()
}

type ChainConfig struct {
	RPCAddrs                 []string `json:"rpc_addrs"`                   // RPCAddrs is a list of execution layer RPC address, the first one is used
	ServiceManagerAddress    string   `json:"service_manager_address"`     // ServiceManagerAddress is the EigenDA service manager emitting BatchConfirmed
	StartBlock               uint64   `json:"start_block"`                 // StartBlock is used to init the syncer which block to sync from
	Confirmations            uint64   `json:"confirmations"`               // Confirmations is the depth behind latest, 0 means follow the finalized tag
	MaxBlocksPerNotification uint64   `json:"max_blocks_per_notification"` // MaxBlocksPerNotification caps how many blocks are delivered at once
	PollIntervalSeconds      int      `json:"poll_interval_seconds"`
}

func (c *ChainConfig) Validate() {
	if len(c.RPCAddrs) == 0 {
		panic("rpc_addrs should not be empty")
	}
	if c.ServiceManagerAddress == "" {
		c.ServiceManagerAddress = DefaultServiceManagerAddress
	}
	if !common.IsHexAddress(c.ServiceManagerAddress) {
		panic(fmt.Sprintf("invalid service_manager_address %s", c.ServiceManagerAddress))
	}
}

func (c *ChainConfig) GetServiceManagerAddress() common.Address {
	if c.ServiceManagerAddress == "" {
		return common.HexToAddress(DefaultServiceManagerAddress)
	}
	return common.HexToAddress(c.ServiceManagerAddress)
}

func (c *ChainConfig) GetMaxBlocksPerNotification() uint64 {
	if c.MaxBlocksPerNotification != 0 {
		return c.MaxBlocksPerNotification
	}
	return DefaultMaxBlocksPerNotification
}

func (c *ChainConfig) GetPollInterval() time.Duration {
	if c.PollIntervalSeconds > 0 {
		return time.Duration(c.PollIntervalSeconds) * time.Second
	}
	return DefaultPollInterval
}

type DisperserConfig struct {
	Endpoint              string `json:"endpoint"` // Endpoint is the host:port of the EigenDA disperser gRPC service
	UseTLS                bool   `json:"use_tls"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"` // 0 leaves the request bounded by the transport only
}

func (c *DisperserConfig) Validate() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultDisperserEndpoint
		c.UseTLS = true
	}
	if c.RequestTimeoutSeconds < 0 {
		panic("request_timeout_seconds should not be negative")
	}
}

func (c *DisperserConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

type MetricsConfig struct {
	Enable      bool   `json:"enable"`
	HttpAddress string `json:"http_address"`
}

func (c *MetricsConfig) GetHttpAddress() string {
	if c.HttpAddress != "" {
		return c.HttpAddress
	}
	return DefaultMetricsAddress
}

type ServerConfig struct {
	Enable      bool   `json:"enable"`
	HttpAddress string `json:"http_address"`
}

func (c *ServerConfig) GetHttpAddress() string {
	if c.HttpAddress != "" {
		return c.HttpAddress
	}
	return DefaultServerAddress
}

type CacheConfig struct {
	CacheSize uint64 `json:"cache_size"`
}

func (c *CacheConfig) GetCacheSize() uint64 {
	if c.CacheSize != 0 {
		return c.CacheSize
	}
	return DefaultCacheSize
}

type DBConfig struct {
	Dialect       string `json:"dialect"`
	KeyType       string `json:"key_type"`
	AWSRegion     string `json:"aws_region"`
	AWSSecretName string `json:"aws_secret_name"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Url           string `json:"url"`
	MaxIdleConns  int    `json:"max_idle_conns"`
	MaxOpenConns  int    `json:"max_open_conns"`
}

func (cfg *DBConfig) Validate() {
	if cfg.Dialect != DBDialectMysql && cfg.Dialect != DBDialectSqlite3 {
		panic(fmt.Sprintf("only %s and %s supported", DBDialectMysql, DBDialectSqlite3))
	}
	if cfg.Dialect == DBDialectMysql && (cfg.Username == "" || cfg.Url == "") {
		panic("db config is not correct, missing username and/or url")
	}
	if cfg.KeyType == KeyTypeAWSPrivateKey && (cfg.AWSRegion == "" || cfg.AWSSecretName == "") {
		panic("aws_region and aws_secret_name should be set when key_type is aws_private_key")
	}
	if cfg.MaxIdleConns == 0 || cfg.MaxOpenConns == 0 {
		panic("db connections is not correct")
	}
}

type LogConfig struct {
	Level                        string `json:"level"`
	Filename                     string `json:"filename"`
	MaxFileSizeInMB              int    `json:"max_file_size_in_mb"`
	MaxBackupsOfLogFiles         int    `json:"max_backups_of_log_files"`
	MaxAgeToRetainLogFilesInDays int    `json:"max_age_to_retain_log_files_in_days"`
	UseConsoleLogger             bool   `json:"use_console_logger"`
	UseFileLogger                bool   `json:"use_file_logger"`
	Compress                     bool   `json:"compress"`
}

func (cfg *LogConfig) Validate() {
	if cfg.UseFileLogger {
		if cfg.Filename == "" {
			panic("filename should not be empty if use file logger")
		}
		if cfg.MaxFileSizeInMB <= 0 {
			panic("max_file_size_in_mb should be larger than 0 if use file logger")
		}
		if cfg.MaxBackupsOfLogFiles <= 0 {
			panic("max_backups_off_log_files should be larger than 0 if use file logger")
		}
	}
}

func ParseSyncerConfigFromJson(content string) *SyncerConfig {
	var config SyncerConfig
	if err := json.Unmarshal([]byte(content), &config); err != nil {
		panic(err)
	}
	return &config
}

func ParseSyncerConfigFromFile(filePath string) *SyncerConfig {
	bz, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}
	return ParseSyncerConfigFromJson(string(bz))
}
