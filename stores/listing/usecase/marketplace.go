package usecase

import (
	"math/big"
	"time"

	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/log"
	"github.com/peermarket/goapi/base/metrics"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/domain/activity"
	"github.com/peermarket/goapi/domain/listing"
	"github.com/peermarket/goapi/service/chain/contract"
)

// royaltyDivisor fixes the platform fee at 1% of the payment, floored.
var royaltyDivisor = big.NewInt(100)

type MarketplaceUseCaseCfg struct {
	ListingRepo   listing.Repo
	ActivityRepo  activity.Repo
	AssetRegistry contract.AssetRegistryContract
	ValueTransfer contract.ValueTransferContract
	AccessControl contract.AccessControlContract
	Emitter       listing.Emitter
	// Operator is the marketplace account sellers grant transfer
	// approval to.
	Operator domain.Address
	Metrics  metrics.Service
}

type impl struct {
	listingRepo   listing.Repo
	activityRepo  activity.Repo
	assetRegistry contract.AssetRegistryContract
	valueTransfer contract.ValueTransferContract
	accessControl contract.AccessControlContract
	emitter       listing.Emitter
	operator      domain.Address
	met           metrics.Service
}

func New(cfg *MarketplaceUseCaseCfg) listing.UseCase {
	met := cfg.Metrics
	if met == nil {
		met = metrics.New("marketplace")
	}
	return &impl{
		listingRepo:   cfg.ListingRepo,
		activityRepo:  cfg.ActivityRepo,
		assetRegistry: cfg.AssetRegistry,
		valueTransfer: cfg.ValueTransfer,
		accessControl: cfg.AccessControl,
		emitter:       cfg.Emitter,
		operator:      cfg.Operator.ToLower(),
		met:           met,
	}
}

func (im *impl) CreateListing(ctx ctx.Ctx, asset listing.AssetId, price string, seller domain.Address) (domain.ListingId, error) {
	asset.LowerCase()
	seller = seller.ToLower()

	// a listing price must be a positive integer, a negative amount would
	// wrap when packed into a uint256 transfer argument
	if p, ok := new(big.Int).SetString(price, 10); !ok || p.Sign() <= 0 {
		return 0, domain.ErrInvalidNumberFormat
	}

	approved, err := im.assetRegistry.IsApprovedForAll(ctx, int32(asset.ChainId), string(asset.Registry), string(seller), string(im.operator))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"asset":  asset,
			"seller": seller,
		}).Error("assetRegistry.IsApprovedForAll failed")
		return 0, err
	}
	if !approved {
		return 0, domain.ErrApprovalRequired
	}

	prev, err := im.listingRepo.LatestByAsset(ctx, asset)
	if err != nil && err != domain.ErrNotFound {
		ctx.WithFields(log.Fields{
			"err":   err,
			"asset": asset,
		}).Error("listingRepo.LatestByAsset failed")
		return 0, err
	}
	if prev != nil && prev.State == listing.StateOpen {
		return 0, domain.ErrAlreadyListed
	}

	id, err := im.listingRepo.NextListingId(ctx)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("listingRepo.NextListingId failed")
		return 0, err
	}

	l := &listing.Listing{
		ListingId: id,
		AssetId:   asset,
		Price:     price,
		Seller:    seller,
		State:     listing.StateOpen,
		CreatedAt: time.Now(),
	}
	if err := im.listingRepo.Insert(ctx, l); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
		}).Error("listingRepo.Insert failed")
		return 0, err
	}

	im.emitter.Emit(ctx, &listing.Event{
		Type:         listing.EventTypeCreated,
		ListingId:    id,
		Asset:        asset,
		Price:        price,
		DisplayPrice: l.DisplayPrice(),
		Seller:       seller,
	})
	im.recordActivity(ctx, l, activity.TypeList, seller, "")

	return id, nil
}

func (im *impl) BuyListing(ctx ctx.Ctx, id domain.ListingId, payment string, buyer domain.Address) error {
	defer im.met.BumpTime("settlement.time").End()
	buyer = buyer.ToLower()

	l, err := im.listingRepo.FindOne(ctx, id)
	if err == domain.ErrNotFound {
		return domain.ErrListingNotOpen
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
		}).Error("listingRepo.FindOne failed")
		return err
	}
	if l.State != listing.StateOpen {
		return domain.ErrListingNotOpen
	}

	price, err := l.PriceAmount()
	if err != nil {
		return err
	}
	paid, ok := new(big.Int).SetString(payment, 10)
	if !ok || paid.Sign() <= 0 {
		return domain.ErrInvalidNumberFormat
	}
	// exact payment only, no overpayment tolerated
	if paid.Cmp(price) != 0 {
		return domain.ErrWrongPrice
	}

	// royalty floors to 1% and the seller share is the exact complement,
	// so the two always sum to the payment with no dust.
	royalty := new(big.Int).Div(price, royaltyDivisor)
	sellerShare := new(big.Int).Sub(price, royalty)

	admin, err := im.accessControl.Administrator(ctx, int32(l.ChainId))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"chainId": l.ChainId,
		}).Error("accessControl.Administrator failed")
		return domain.ErrSettlementFailed
	}

	// Commit before any outbound call. A re-entrant buy or cancel during
	// settlement sees the listing closed and fails on the state check.
	if err := im.listingRepo.Retire(ctx, id, listing.StateCompleted); err != nil {
		if err == domain.ErrListingNotOpen {
			return err
		}
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
		}).Error("listingRepo.Retire failed")
		return err
	}

	if err := im.settle(ctx, l, buyer, admin, royalty, sellerShare); err != nil {
		im.met.BumpSum("settlement.failed", 1)
		im.rollback(ctx, id)
		return domain.ErrSettlementFailed
	}

	im.emitter.Emit(ctx, &listing.Event{
		Type:         listing.EventTypeSold,
		ListingId:    id,
		Asset:        l.AssetId,
		Price:        l.Price,
		DisplayPrice: l.DisplayPrice(),
		Seller:       l.Seller,
		Buyer:        buyer,
	})
	im.recordActivity(ctx, l, activity.TypeBuy, buyer, l.Seller)
	im.recordActivity(ctx, l, activity.TypeSold, l.Seller, buyer)

	return nil
}

// settle moves value then asset ownership. The asset transfer only runs
// once both value transfers have landed.
func (im *impl) settle(ctx ctx.Ctx, l *listing.Listing, buyer domain.Address, admin domain.Address, royalty, sellerShare *big.Int) error {
	chainId := int32(l.ChainId)

	if royalty.Sign() > 0 {
		if err := im.valueTransfer.Send(ctx, chainId, string(admin), royalty); err != nil {
			ctx.WithFields(log.Fields{
				"err":       err,
				"listingId": l.ListingId,
			}).Warn("royalty transfer failed")
			return err
		}
	}
	if err := im.valueTransfer.Send(ctx, chainId, string(l.Seller), sellerShare); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": l.ListingId,
		}).Warn("seller transfer failed")
		return err
	}

	tokenId, err := contract.AssetIdToBigInt(l.TokenId)
	if err != nil {
		return err
	}
	if err := im.assetRegistry.SafeTransferFrom(ctx, chainId, string(l.Registry), string(l.Seller), string(buyer), tokenId); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": l.ListingId,
		}).Warn("asset transfer failed")
		return err
	}
	return nil
}

// rollback reopens a listing whose settlement did not land, restoring it to
// the open set as if the buy never started.
func (im *impl) rollback(ctx ctx.Ctx, id domain.ListingId) {
	if err := im.listingRepo.Reopen(ctx, id, listing.StateCompleted); err != nil {
		// a closed listing with no settled funds must not survive
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
		}).Error("listingRepo.Reopen failed, listing stuck in completed")
		im.met.BumpSum("settlement.rollback.failed", 1)
	}
}

func (im *impl) CancelListing(ctx ctx.Ctx, id domain.ListingId, caller domain.Address) error {
	caller = caller.ToLower()

	l, err := im.listingRepo.FindOne(ctx, id)
	if err == domain.ErrNotFound {
		return domain.ErrListingNotOpen
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
		}).Error("listingRepo.FindOne failed")
		return err
	}
	if l.State != listing.StateOpen {
		return domain.ErrListingNotOpen
	}
	// only the listing seller may withdraw it
	if !l.Seller.Equals(caller) {
		return domain.ErrNotSeller
	}

	if err := im.listingRepo.Retire(ctx, id, listing.StateCancelled); err != nil {
		if err == domain.ErrListingNotOpen {
			return err
		}
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": id,
		}).Error("listingRepo.Retire failed")
		return err
	}

	im.emitter.Emit(ctx, &listing.Event{
		Type:      listing.EventTypeCancelled,
		ListingId: id,
		Asset:     l.AssetId,
		Seller:    l.Seller,
	})
	im.recordActivity(ctx, l, activity.TypeCancelListing, l.Seller, "")

	return nil
}

func (im *impl) GetListingsByUser(ctx ctx.Ctx, account domain.Address) ([]*listing.Listing, error) {
	res, err := im.listingRepo.FindAll(ctx, listing.WithSeller(account), listing.WithState(listing.StateOpen))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"account": account,
		}).Error("listingRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) GetAllActiveListings(ctx ctx.Ctx) ([]*listing.Listing, error) {
	res, err := im.listingRepo.FindAll(ctx, listing.WithState(listing.StateOpen))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("listingRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}

// recordActivity writes history best-effort. Failures are logged and
// swallowed, the listing state change already happened.
func (im *impl) recordActivity(ctx ctx.Ctx, l *listing.Listing, typ activity.Type, account, to domain.Address) {
	if im.activityRepo == nil {
		return
	}
	a := &activity.Activity{
		ChainId:   l.ChainId,
		Registry:  l.Registry,
		TokenId:   l.TokenId,
		ListingId: l.ListingId,
		Type:      typ,
		Account:   account,
		To:        to,
		Price:     l.Price,
		Time:      time.Now(),
	}
	if err := im.activityRepo.Insert(ctx, a); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"activity": *a,
		}).Warn("activityRepo.Insert failed")
	}
}
