package activity

import (
	"time"

	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/domain"
)

type Type string

const (
	TypeList          Type = "list"
	TypeCancelListing Type = "cancelListing"
	TypeBuy           Type = "buy"
	TypeSold          Type = "sold"
)

// Activity is one per-account marketplace history record. Best-effort:
// written after the listing state change, never on the critical path.
type Activity struct {
	ChainId   domain.ChainId   `json:"chainId" bson:"chainId"`
	Registry  domain.Address   `json:"registry" bson:"registry"`
	TokenId   domain.TokenId   `json:"tokenId" bson:"tokenId"`
	ListingId domain.ListingId `json:"listingId" bson:"listingId"`
	Type      Type             `json:"type" bson:"type"`
	Account   domain.Address   `json:"account" bson:"account"`
	To        domain.Address   `json:"to,omitempty" bson:"to,omitempty"`
	Price     string           `json:"price" bson:"price"`
	Time      time.Time        `json:"time" bson:"time"`
}

type FindAllOptions struct {
	Account   *domain.Address
	ListingId *domain.ListingId
	Type      *Type
	Offset    *int32
	Limit     *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithAccount(account domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Account = account.ToLowerPtr()
		return nil
	}
}

func WithListingId(id domain.ListingId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ListingId = &id
		return nil
	}
}

func WithType(t Type) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Type = &t
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	Insert(ctx ctx.Ctx, a *Activity) error
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Activity, error)
}
