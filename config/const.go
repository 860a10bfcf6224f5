package config

import "time"

const (
	FlagConfigPath   = "config-path"
	FlagConfigDbPass = "db-pass"

	DBDialectMysql   = "mysql"
	DBDialectSqlite3 = "sqlite3"

	KeyTypeLocalPrivateKey = "local_private_key"
	KeyTypeAWSPrivateKey   = "aws_private_key"

	EnvVarConfigFilePath = "CONFIG_FILE_PATH"
	EnvVarDBUserName     = "DB_USERNAME"
	EnvVarDBUserPass     = "DB_PASSWORD"

	// DefaultServiceManagerAddress is the EigenDA service manager on the local devnet.
	DefaultServiceManagerAddress = "0x5fbdb2315678afecb367f032d93f642f64180aa3"
	DefaultDisperserEndpoint     = "disperser-holesky.eigenda.xyz:443"

	DefaultMaxBlocksPerNotification = 20
	DefaultPollInterval             = 12 * time.Second
	DefaultCacheSize                = 1024

	DefaultMetricsAddress = "0.0.0.0:9090"
	DefaultServerAddress  = "0.0.0.0:8080"
)
