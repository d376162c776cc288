package listing

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/domain"
)

// valueDecimals is the value token's decimal precision.
const valueDecimals = 18

type State string

const (
	StateOpen      State = "open"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// IsTerminal reports whether the state admits no further transition.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// AssetId identifies one sellable unit. The key is the compound
// (chainId, registry, tokenId) so two registries sharing a token id
// never collide.
type AssetId struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Registry domain.Address `json:"registry" bson:"registry"`
	TokenId  domain.TokenId `json:"tokenId" bson:"tokenId"`
}

func (a *AssetId) LowerCase() {
	a.Registry = a.Registry.ToLower()
}

type Listing struct {
	ListingId domain.ListingId `json:"listingId" bson:"listingId"`
	AssetId   `bson:"inline"`
	// Price is the exact payment amount in the value token's smallest
	// unit, decimal string
	Price     string         `json:"price" bson:"price"`
	Seller    domain.Address `json:"seller" bson:"seller"`
	State     State          `json:"state" bson:"state"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	ClosedAt  *time.Time     `json:"closedAt" bson:"closedAt"`
}

func (l *Listing) LowerCase() {
	l.AssetId.LowerCase()
	l.Seller = l.Seller.ToLower()
}

// PriceAmount parses Price into an integer amount.
func (l *Listing) PriceAmount() (*big.Int, error) {
	p, ok := new(big.Int).SetString(l.Price, 10)
	if !ok {
		return nil, domain.ErrInvalidNumberFormat
	}
	return p, nil
}

// DisplayPrice renders Price in whole token units for event payloads.
func (l *Listing) DisplayPrice() string {
	p, err := l.PriceAmount()
	if err != nil {
		return ""
	}
	return decimal.NewFromBigInt(p, -valueDecimals).String()
}

type Id struct {
	ListingId domain.ListingId `json:"listingId" bson:"listingId"`
}

func (l *Listing) ToId() Id {
	return Id{ListingId: l.ListingId}
}

type FindAllOptions struct {
	ChainId  *domain.ChainId
	Registry *domain.Address
	TokenId  *domain.TokenId
	Seller   *domain.Address
	State    *State
	Offset   *int32
	Limit    *int32
	Sort     *string
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

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithRegistry(registry domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Registry = registry.ToLowerPtr()
		return nil
	}
}

func WithTokenId(tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenId = &tokenId
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func WithState(state State) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.State = &state
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

func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Sort = &sort
		return nil
	}
}

// Repo owns the listing table and its secondary lookups. State transitions
// are compare-and-set on the current state so the open set always equals the
// set of documents whose state is open.
type Repo interface {
	// Insert stores a fresh open listing. Returns domain.ErrDuplicateId
	// when the listing id is already taken.
	Insert(ctx ctx.Ctx, l *Listing) error
	// Retire moves an open listing into a terminal state. Returns
	// domain.ErrListingNotOpen when the listing is missing or already
	// closed. The owner set entry removed is the stored document's
	// seller, regardless of who drove the enclosing operation.
	Retire(ctx ctx.Ctx, id domain.ListingId, newState State) error
	// Reopen is the compensating rollback for Retire: it moves a listing
	// from newState back to open. Returns domain.ErrNotFound when no
	// listing with that id sits in newState.
	Reopen(ctx ctx.Ctx, id domain.ListingId, newState State) error
	FindOne(ctx ctx.Ctx, id domain.ListingId) (*Listing, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	// LatestByAsset resolves the asset-key lookup: the most recently
	// created listing for the compound asset id, any state. Returns
	// domain.ErrNotFound when the asset was never listed.
	LatestByAsset(ctx ctx.Ctx, asset AssetId) (*Listing, error)
	// NextListingId allocates the next monotonic listing id, starting
	// at 1.
	NextListingId(ctx ctx.Ctx) (domain.ListingId, error)
}

type UseCase interface {
	CreateListing(ctx ctx.Ctx, asset AssetId, price string, seller domain.Address) (domain.ListingId, error)
	BuyListing(ctx ctx.Ctx, id domain.ListingId, payment string, buyer domain.Address) error
	CancelListing(ctx ctx.Ctx, id domain.ListingId, caller domain.Address) error
	GetListingsByUser(ctx ctx.Ctx, account domain.Address) ([]*Listing, error)
	GetAllActiveListings(ctx ctx.Ctx) ([]*Listing, error)
}
