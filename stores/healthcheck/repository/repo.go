package repository

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/database/mongoclient"
	hcdomain "github.com/peermarket/goapi/domain/healthcheck"
	"github.com/peermarket/goapi/domain/keys"
)

type impl struct {
	mgoClient *mongoclient.Client
	redisPool *redis.Pool
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(
	mgoClient *mongoclient.Client,
	redisPool *redis.Pool,
) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient: mgoClient,
		redisPool: redisPool,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, 2*time.Second)
	defer cancel()
	if err := im.mgoClient.Ping(ctx, readpref.Primary()); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}

	conn := im.redisPool.Get()
	defer conn.Close()
	if _, err := conn.Do("SETEX", keys.RedisKey(keys.PfxHealthCheck, "testset"), 30, "1"); err != nil {
		context.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}
