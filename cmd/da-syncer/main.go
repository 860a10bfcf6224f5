package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/bnb-chain/da-syncer/cache"
	"github.com/bnb-chain/da-syncer/config"
	syncerdb "github.com/bnb-chain/da-syncer/db"
	"github.com/bnb-chain/da-syncer/external"
	"github.com/bnb-chain/da-syncer/external/eigenda"
	"github.com/bnb-chain/da-syncer/extractor"
	"github.com/bnb-chain/da-syncer/logging"
	"github.com/bnb-chain/da-syncer/metrics"
	"github.com/bnb-chain/da-syncer/restapi"
	"github.com/bnb-chain/da-syncer/retriever"
	"github.com/bnb-chain/da-syncer/service"
	"github.com/bnb-chain/da-syncer/syncer"
)

func initFlags() {
	flag.String(config.FlagConfigPath, "", "config file path")
	flag.String(config.FlagConfigDbPass, "", "da-syncer db password")

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		panic(err)
	}
}

func printUsage() {
	fmt.Print("usage: ./da-syncer --config-path configFile [--db-pass password]\n")
}

func main() {
	var (
		cfg            *config.SyncerConfig
		configFilePath string
	)
	initFlags()
	configFilePath = viper.GetString(config.FlagConfigPath)
	if configFilePath == "" {
		configFilePath = os.Getenv(config.EnvVarConfigFilePath)
	}
	if configFilePath == "" {
		printUsage()
		return
	}
	cfg = config.ParseSyncerConfigFromFile(configFilePath)
	if cfg == nil {
		panic("failed to get configuration")
	}
	cfg.Validate()
	logging.InitLogger(&cfg.LogConfig)

	if err := run(cfg); err != nil {
		logging.Logger.Errorf("da-syncer stopped, err=%s", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.SyncerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.InitDBWithConfig(&cfg.DBConfig, viper.GetString(config.FlagConfigDbPass))
	syncerdb.AutoMigrateDB(db)
	blobDB := syncerdb.NewBlobSvcDB(db)

	disperserClient, err := eigenda.Dial(ctx, &cfg.DisperserConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to disperser %s, err=%w", cfg.DisperserConfig.Endpoint, err)
	}
	defer disperserClient.Close()

	poller := syncer.NewChainPoller(external.NewClient(&cfg.ChainConfig), blobDB, &cfg.ChainConfig)
	bs := syncer.NewBatchSyncer(
		poller,
		poller,
		extractor.New(cfg.ChainConfig.GetServiceManagerAddress()),
		retriever.New(disperserClient),
		syncer.WithBlobHandler(syncer.NewDBRecorder(blobDB)),
	)

	if cfg.MetricsConfig.Enable {
		metrics.NewMetrics(cfg.MetricsConfig.GetHttpAddress()).Start()
	}
	var apiServer *restapi.Server
	if cfg.ServerConfig.Enable {
		lc, err := cache.NewLocalCache(cfg.CacheConfig.GetCacheSize())
		if err != nil {
			return err
		}
		apiServer = restapi.NewServer(cfg.ServerConfig.GetHttpAddress(), service.NewBatchService(blobDB, lc))
	}

	logging.Logger.Infof("da-syncer started, service_manager=%s, disperser=%s",
		cfg.ChainConfig.GetServiceManagerAddress().Hex(), cfg.DisperserConfig.Endpoint)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the api server goes down with the syncer
		defer stop()
		return bs.Run(gctx)
	})
	if apiServer != nil {
		g.Go(func() error {
			return apiServer.Run(gctx)
		})
	}
	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Logger.Infof("da-syncer stopped")
	return nil
}
