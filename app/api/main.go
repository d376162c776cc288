package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/database/mongoclient"
	"github.com/peermarket/goapi/base/database/redisclient"
	"github.com/peermarket/goapi/base/log"
	bValidator "github.com/peermarket/goapi/base/validator"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/domain/keys"
	mmiddleware "github.com/peermarket/goapi/middleware"
	"github.com/peermarket/goapi/service/cache"
	"github.com/peermarket/goapi/service/cache/provider"
	"github.com/peermarket/goapi/service/cache/provider/compound"
	"github.com/peermarket/goapi/service/cache/provider/primitive"
	redisCache "github.com/peermarket/goapi/service/cache/provider/redis"
	"github.com/peermarket/goapi/service/chain"
	"github.com/peermarket/goapi/service/chain/contract"
	"github.com/peermarket/goapi/service/query"
	activity_repository "github.com/peermarket/goapi/stores/activity/repository"
	auth_delivery "github.com/peermarket/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/peermarket/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/peermarket/goapi/stores/auth/usecase"
	hc_delivery "github.com/peermarket/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/peermarket/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/peermarket/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/peermarket/goapi/stores/listing/delivery/http"
	listing_emitter "github.com/peermarket/goapi/stores/listing/emitter"
	listing_repository "github.com/peermarket/goapi/stores/listing/repository"
	listing_usecase "github.com/peermarket/goapi/stores/listing/usecase"
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

//	@title			Peer Marketplace API
//	@version		1.0
//	@description	API Document for the peer-to-peer listing marketplace.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrieve token from #/auth/post_auth_sign and apply with `bearer {token}`
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis pool
	context.Info("init redis")
	redisURI := viper.GetString("redis.uri")
	redisPwd := viper.GetString("redis.password")
	redisPoolMultiplier := viper.GetFloat64("redis.poolMultiplier")
	redisPool := redisclient.MustConnectRedis(redisURI, redisPwd, redisclient.RedisParam{
		PoolMultiplier: redisPoolMultiplier,
		Retry:          true,
	})

	// local + redis layered cache for read-heavy queries
	listingCache := cache.New(cache.ServiceConfig{
		Ttl: viper.GetDuration("cache.listingTtl"),
		Pfx: keys.PfxListing,
		Cache: compound.NewCompound([]provider.Provider{
			primitive.NewPrimitive(keys.PfxListing, 16),
			redisCache.NewRedis(redisPool),
		}),
	})
	adminCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.adminTtl"),
		Pfx:   "admin",
		Cache: primitive.NewPrimitive("admin", 1),
	})

	// init chain service
	networks := viper.Sub("networks")
	networkKeys := networks.AllSettings()
	rpcs := make(map[int32]string)
	marketplaces := make(map[int32]string)
	payTokens := make(map[int32]string)
	for k := range networkKeys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcs[chainId] = networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		marketplaces[chainId] = networks.GetString(fmt.Sprintf("%s.marketplace", k))
		payTokens[chainId] = networks.GetString(fmt.Sprintf("%s.payToken", k))
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:   rpcs,
		SignerKey: viper.GetString("operator.signerKey"),
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}
	assetRegistry := contract.NewAssetRegistry(chainService)
	valueTransfer := contract.NewValueTransfer(chainService, payTokens)
	accessControl := contract.NewAccessControl(chainService, marketplaces, adminCache)

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisPool)
	listingRepo := listing_repository.NewListingRepo(q)
	activityRepo := activity_repository.NewActivityRepo(q)
	emitter := listing_emitter.NewRedisEmitter(redisPool)

	hc := hc_usecase.New(hcRepo)
	marketplace := listing_usecase.New(&listing_usecase.MarketplaceUseCaseCfg{
		ListingRepo:   listingRepo,
		ActivityRepo:  activityRepo,
		AssetRegistry: assetRegistry,
		ValueTransfer: valueTransfer,
		AccessControl: accessControl,
		Emitter:       emitter,
		Operator:      domain.Address(viper.GetString("operator.address")),
	})
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"))

	adminAddresses := viper.GetStringSlice("admin.addresses")
	authMiddleware := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, viper.GetString("auth.signatureMsg"))
	listing_delivery.New(e, authMiddleware, marketplace, activityRepo, listingCache)

	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"address": c.Get("address").(domain.Address),
		})
	}, authMiddleware.Auth())

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
