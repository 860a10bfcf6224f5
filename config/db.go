package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDBWithConfig opens the configured database. The password argument overrides the
// one resolved from the config when it is not empty.
func InitDBWithConfig(cfg *DBConfig, password string) *gorm.DB {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case DBDialectMysql:
		username := cfg.Username
		if envUser := os.Getenv(EnvVarDBUserName); envUser != "" {
			username = envUser
		}
		if password == "" {
			password = getDBPass(cfg)
		}
		dialector = mysql.Open(fmt.Sprintf("%s:%s@%s", username, password, cfg.Url))
	case DBDialectSqlite3:
		dialector = sqlite.Open(cfg.Url)
	default:
		panic(fmt.Sprintf("unexpected DB dialect %s", cfg.Dialect))
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		panic(fmt.Sprintf("open db error, err=%s", err.Error()))
	}
	dbConfig, err := db.DB()
	if err != nil {
		panic(err)
	}
	dbConfig.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConfig.SetMaxOpenConns(cfg.MaxOpenConns)
	return db
}

func getDBPass(cfg *DBConfig) string {
	if envPass := os.Getenv(EnvVarDBUserPass); envPass != "" {
		return envPass
	}
	if cfg.KeyType == KeyTypeAWSPrivateKey {
		result, err := GetSecret(cfg.AWSSecretName, cfg.AWSRegion)
		if err != nil {
			panic(err)
		}
		type DBPass struct {
			DbPass string `json:"db_pass"`
		}
		var dbPassword DBPass
		if err = json.Unmarshal([]byte(result), &dbPassword); err != nil {
			panic(err)
		}
		return dbPassword.DbPass
	}
	return cfg.Password
}
