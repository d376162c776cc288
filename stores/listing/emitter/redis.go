package emitter

import (
	"encoding/json"

	"github.com/gomodule/redigo/redis"
	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/log"
	"github.com/peermarket/goapi/domain/listing"
)

const channel = "marketplace.listing.events"

// redisEmitter publishes listing events over redis pub/sub. Delivery is
// fire-and-forget: events are only emitted after the state change they
// describe, and a publish failure never fails the operation.
type redisEmitter struct {
	pool *redis.Pool
}

func NewRedisEmitter(pool *redis.Pool) listing.Emitter {
	return &redisEmitter{pool: pool}
}

func (e *redisEmitter) Emit(ctx ctx.Ctx, ev *listing.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"event": *ev,
		}).Error("json.Marshal failed")
		return
	}

	conn := e.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("PUBLISH", channel, payload); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"eventType": ev.Type,
			"listingId": ev.ListingId,
		}).Warn("failed to publish listing event")
	}
}
