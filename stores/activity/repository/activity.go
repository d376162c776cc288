package repository

import (
	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/log"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/domain/activity"
	"github.com/peermarket/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type activityRepoImpl struct {
	q query.Mongo
}

func NewActivityRepo(q query.Mongo) activity.Repo {
	return &activityRepoImpl{q}
}

func (im *activityRepoImpl) makeQuery(opts ...activity.FindAllOptionsFunc) (bson.M, error) {
	options, err := activity.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.Account != nil {
		query["account"] = *options.Account
	}

	if options.ListingId != nil {
		query["listingId"] = *options.ListingId
	}

	if options.Type != nil {
		query["type"] = *options.Type
	}

	return query, nil
}

func (im *activityRepoImpl) Insert(ctx ctx.Ctx, a *activity.Activity) error {
	a.Account = a.Account.ToLower()
	a.To = a.To.ToLower()
	a.Registry = a.Registry.ToLower()
	if err := im.q.Insert(ctx, domain.TableActivityHistories, a); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"activity": *a,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *activityRepoImpl) FindAll(ctx ctx.Ctx, opts ...activity.FindAllOptionsFunc) ([]*activity.Activity, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := activity.GetFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	res := []*activity.Activity{}
	err = im.q.Search(ctx, domain.TableActivityHistories, offset, limit, "-time", qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}
	return res, nil
}
