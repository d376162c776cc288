package repository

import (
	"time"

	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/log"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/domain/listing"
	"github.com/peermarket/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

// counterDoc tracks the listing id sequence. value starts at 1 via the
// upsert on first increment.
type counterDoc struct {
	Name  string           `bson:"name"`
	Value domain.ListingId `bson:"value"`
}

const listingIdCounter = "listingId"

type listingRepoImpl struct {
	q query.Mongo
}

func NewListingRepo(q query.Mongo) listing.Repo {
	return &listingRepoImpl{q}
}

func (im *listingRepoImpl) makeQuery(opts ...listing.FindAllOptionsFunc) (bson.M, error) {
	options, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.ChainId != nil {
		query["chainId"] = *options.ChainId
	}

	if options.Registry != nil {
		query["registry"] = *options.Registry
	}

	if options.TokenId != nil {
		query["tokenId"] = *options.TokenId
	}

	if options.Seller != nil {
		query["seller"] = *options.Seller
	}

	if options.State != nil {
		query["state"] = *options.State
	}

	return query, nil
}

func (im *listingRepoImpl) Insert(ctx ctx.Ctx, l *listing.Listing) error {
	l.LowerCase()
	err := im.q.Insert(ctx, domain.TableListings, l)
	if err == query.ErrDuplicateKey {
		return domain.ErrDuplicateId
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"listing": *l,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *listingRepoImpl) Retire(ctx ctx.Ctx, id domain.ListingId, newState listing.State) error {
	// compare-and-set on the current state keeps the open set exact: only
	// one Retire can win, and a listing already closed stays closed. The
	// document's own seller leaves the owner set with it, whoever drove
	// the call.
	selector := bson.M{"listingId": id, "state": listing.StateOpen}
	now := time.Now()
	err := im.q.Patch(ctx, domain.TableListings, selector, bson.M{"state": newState, "closedAt": now})
	if err == query.ErrNotFound {
		return domain.ErrListingNotOpen
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
			"newState":  newState,
		}).Error("failed to q.Patch")
		return err
	}
	return nil
}

func (im *listingRepoImpl) Reopen(ctx ctx.Ctx, id domain.ListingId, newState listing.State) error {
	selector := bson.M{"listingId": id, "state": newState}
	update := bson.M{
		"$set":   bson.M{"state": listing.StateOpen},
		"$unset": bson.M{"closedAt": ""},
	}
	err := im.q.CustomPatch(ctx, domain.TableListings, selector, update, false)
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
		}).Error("failed to q.CustomPatch")
		return err
	}
	return nil
}

func (im *listingRepoImpl) FindOne(ctx ctx.Ctx, id domain.ListingId) (*listing.Listing, error) {
	res := listing.Listing{}
	err := im.q.FindOne(ctx, domain.TableListings, bson.M{"listingId": id}, &res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return &res, nil
}

func (im *listingRepoImpl) FindAll(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := listing.GetFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}
	sort := "listingId"
	if options.Sort != nil {
		sort = *options.Sort
	}

	res := []*listing.Listing{}
	err = im.q.Search(ctx, domain.TableListings, offset, limit, sort, qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}
	return res, nil
}

func (im *listingRepoImpl) Count(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) (int, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableListings, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}
	return cnt, nil
}

func (im *listingRepoImpl) LatestByAsset(ctx ctx.Ctx, asset listing.AssetId) (*listing.Listing, error) {
	asset.LowerCase()
	qry := bson.M{
		"chainId":  asset.ChainId,
		"registry": asset.Registry,
		"tokenId":  asset.TokenId,
	}

	res := []*listing.Listing{}
	err := im.q.Search(ctx, domain.TableListings, 0, 1, "-listingId", qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}
	if len(res) == 0 {
		return nil, domain.ErrNotFound
	}
	return res[0], nil
}

func (im *listingRepoImpl) NextListingId(ctx ctx.Ctx) (domain.ListingId, error) {
	res := counterDoc{}
	err := im.q.Increment(ctx, domain.TableCounters, bson.M{"name": listingIdCounter}, &res, "value", 1)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to q.Increment")
		return 0, err
	}
	return res.Value, nil
}
