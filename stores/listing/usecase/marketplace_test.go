package usecase

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/domain/listing"
	mListing "github.com/peermarket/goapi/domain/listing/mocks"
	mContract "github.com/peermarket/goapi/service/chain/contract/mocks"
)

type marketplaceSuite struct {
	suite.Suite

	listingRepo   *mListing.Repo
	emitter       *mListing.Emitter
	assetRegistry *mContract.AssetRegistryContract
	valueTransfer *mContract.ValueTransferContract
	accessControl *mContract.AccessControlContract
	im            *impl
}

func TestMarketplaceSuite(t *testing.T) {
	suite.Run(t, new(marketplaceSuite))
}

const (
	operator = domain.Address("0x00000000000000000000000000000000000000aa")
	admin    = domain.Address("0x00000000000000000000000000000000000000ad")
	seller   = domain.Address("0x0000000000000000000000000000000000000001")
	buyer    = domain.Address("0x0000000000000000000000000000000000000002")
	registry = domain.Address("0x00000000000000000000000000000000000000ff")
)

var asset = listing.AssetId{ChainId: 1, Registry: registry, TokenId: "1"}

func (s *marketplaceSuite) SetupTest() {
	s.listingRepo = &mListing.Repo{}
	s.emitter = &mListing.Emitter{}
	s.assetRegistry = &mContract.AssetRegistryContract{}
	s.valueTransfer = &mContract.ValueTransferContract{}
	s.accessControl = &mContract.AccessControlContract{}
	s.im = New(&MarketplaceUseCaseCfg{
		ListingRepo:   s.listingRepo,
		AssetRegistry: s.assetRegistry,
		ValueTransfer: s.valueTransfer,
		AccessControl: s.accessControl,
		Emitter:       s.emitter,
		Operator:      operator,
	}).(*impl)
}

func (s *marketplaceSuite) TearDownTest() {
	s.listingRepo.AssertExpectations(s.T())
	s.emitter.AssertExpectations(s.T())
	s.assetRegistry.AssertExpectations(s.T())
	s.valueTransfer.AssertExpectations(s.T())
	s.accessControl.AssertExpectations(s.T())
}

func openListing(id domain.ListingId, price string) *listing.Listing {
	return &listing.Listing{
		ListingId: id,
		AssetId:   asset,
		Price:     price,
		Seller:    seller,
		State:     listing.StateOpen,
	}
}

func (s *marketplaceSuite) TestCreateListing() {
	c := ctx.Background()

	s.assetRegistry.On("IsApprovedForAll", mock.Anything, int32(1), string(registry), string(seller), string(operator)).Return(true, nil).Once()
	s.listingRepo.On("LatestByAsset", mock.Anything, asset).Return(nil, domain.ErrNotFound).Once()
	s.listingRepo.On("NextListingId", mock.Anything).Return(domain.ListingId(1), nil).Once()
	s.listingRepo.On("Insert", mock.Anything, mock.MatchedBy(func(l *listing.Listing) bool {
		return l.ListingId == 1 && l.State == listing.StateOpen && l.Seller == seller && l.Price == "100"
	})).Return(nil).Once()
	s.emitter.On("Emit", mock.Anything, mock.MatchedBy(func(ev *listing.Event) bool {
		return ev.Type == listing.EventTypeCreated && ev.ListingId == 1
	})).Once()

	id, err := s.im.CreateListing(c, asset, "100", seller)
	s.NoError(err)
	s.Equal(domain.ListingId(1), id)
}

func (s *marketplaceSuite) TestCreateListingNonPositivePrice() {
	c := ctx.Background()

	for _, price := range []string{"-100", "0", "abc"} {
		_, err := s.im.CreateListing(c, asset, price, seller)
		s.Equal(domain.ErrInvalidNumberFormat, err)
	}
	s.listingRepo.AssertNotCalled(s.T(), "Insert", mock.Anything, mock.Anything)
}

func (s *marketplaceSuite) TestCreateListingWithoutApproval() {
	c := ctx.Background()

	s.assetRegistry.On("IsApprovedForAll", mock.Anything, int32(1), string(registry), string(seller), string(operator)).Return(false, nil).Once()

	_, err := s.im.CreateListing(c, asset, "100", seller)
	s.Equal(domain.ErrApprovalRequired, err)
}

func (s *marketplaceSuite) TestCreateListingAlreadyListed() {
	c := ctx.Background()

	s.assetRegistry.On("IsApprovedForAll", mock.Anything, int32(1), string(registry), string(seller), string(operator)).Return(true, nil).Once()
	s.listingRepo.On("LatestByAsset", mock.Anything, asset).Return(openListing(7, "100"), nil).Once()

	_, err := s.im.CreateListing(c, asset, "100", seller)
	s.Equal(domain.ErrAlreadyListed, err)
}

func (s *marketplaceSuite) TestCreateListingAfterTerminalListing() {
	c := ctx.Background()

	prev := openListing(7, "100")
	prev.State = listing.StateCancelled

	s.assetRegistry.On("IsApprovedForAll", mock.Anything, int32(1), string(registry), string(seller), string(operator)).Return(true, nil).Once()
	s.listingRepo.On("LatestByAsset", mock.Anything, asset).Return(prev, nil).Once()
	s.listingRepo.On("NextListingId", mock.Anything).Return(domain.ListingId(8), nil).Once()
	s.listingRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	s.emitter.On("Emit", mock.Anything, mock.Anything).Once()

	id, err := s.im.CreateListing(c, asset, "100", seller)
	s.NoError(err)
	s.Equal(domain.ListingId(8), id)
}

func (s *marketplaceSuite) TestBuyListing() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(1)).Return(openListing(1, "100"), nil).Once()
	s.accessControl.On("Administrator", mock.Anything, int32(1)).Return(admin, nil).Once()
	s.listingRepo.On("Retire", mock.Anything, domain.ListingId(1), listing.StateCompleted).Return(nil).Once()
	// royalty floors to 1, seller share is the exact complement
	s.valueTransfer.On("Send", mock.Anything, int32(1), string(admin), big.NewInt(1)).Return(nil).Once()
	s.valueTransfer.On("Send", mock.Anything, int32(1), string(seller), big.NewInt(99)).Return(nil).Once()
	s.assetRegistry.On("SafeTransferFrom", mock.Anything, int32(1), string(registry), string(seller), string(buyer), big.NewInt(1)).Return(nil).Once()
	s.emitter.On("Emit", mock.Anything, mock.MatchedBy(func(ev *listing.Event) bool {
		return ev.Type == listing.EventTypeSold && ev.Buyer == buyer
	})).Once()

	err := s.im.BuyListing(c, 1, "100", buyer)
	s.NoError(err)
}

func (s *marketplaceSuite) TestBuyListingSmallPriceSkipsRoyalty() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(1)).Return(openListing(1, "50"), nil).Once()
	s.accessControl.On("Administrator", mock.Anything, int32(1)).Return(admin, nil).Once()
	s.listingRepo.On("Retire", mock.Anything, domain.ListingId(1), listing.StateCompleted).Return(nil).Once()
	// floor(50/100) == 0, the whole payment goes to the seller
	s.valueTransfer.On("Send", mock.Anything, int32(1), string(seller), big.NewInt(50)).Return(nil).Once()
	s.assetRegistry.On("SafeTransferFrom", mock.Anything, int32(1), string(registry), string(seller), string(buyer), big.NewInt(1)).Return(nil).Once()
	s.emitter.On("Emit", mock.Anything, mock.Anything).Once()

	err := s.im.BuyListing(c, 1, "50", buyer)
	s.NoError(err)
}

func (s *marketplaceSuite) TestBuyListingWrongPrice() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(3)).Return(openListing(3, "10"), nil).Twice()

	err := s.im.BuyListing(c, 3, "9", buyer)
	s.Equal(domain.ErrWrongPrice, err)

	err = s.im.BuyListing(c, 3, "11", buyer)
	s.Equal(domain.ErrWrongPrice, err)
}

func (s *marketplaceSuite) TestBuyListingNonPositivePayment() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(1)).Return(openListing(1, "100"), nil).Twice()

	err := s.im.BuyListing(c, 1, "-100", buyer)
	s.Equal(domain.ErrInvalidNumberFormat, err)

	err = s.im.BuyListing(c, 1, "0", buyer)
	s.Equal(domain.ErrInvalidNumberFormat, err)

	// a negative payment must never reach settlement
	s.listingRepo.AssertNotCalled(s.T(), "Retire", mock.Anything, mock.Anything, mock.Anything)
	s.valueTransfer.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *marketplaceSuite) TestBuyListingNotOpen() {
	c := ctx.Background()

	closed := openListing(1, "100")
	closed.State = listing.StateCompleted

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(1)).Return(closed, nil).Once()

	err := s.im.BuyListing(c, 1, "100", buyer)
	s.Equal(domain.ErrListingNotOpen, err)
}

func (s *marketplaceSuite) TestBuyListingMissing() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(9)).Return(nil, domain.ErrNotFound).Once()

	err := s.im.BuyListing(c, 9, "100", buyer)
	s.Equal(domain.ErrListingNotOpen, err)
}

func (s *marketplaceSuite) TestBuyListingValueTransferFailureRollsBack() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(1)).Return(openListing(1, "100"), nil).Once()
	s.accessControl.On("Administrator", mock.Anything, int32(1)).Return(admin, nil).Once()
	s.listingRepo.On("Retire", mock.Anything, domain.ListingId(1), listing.StateCompleted).Return(nil).Once()
	s.valueTransfer.On("Send", mock.Anything, int32(1), string(admin), big.NewInt(1)).Return(nil).Once()
	s.valueTransfer.On("Send", mock.Anything, int32(1), string(seller), big.NewInt(99)).Return(errors.New("transfer reverted")).Once()
	s.listingRepo.On("Reopen", mock.Anything, domain.ListingId(1), listing.StateCompleted).Return(nil).Once()

	err := s.im.BuyListing(c, 1, "100", buyer)
	s.Equal(domain.ErrSettlementFailed, err)
	// no asset transfer may happen when payment did not land
	s.assetRegistry.AssertNotCalled(s.T(), "SafeTransferFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *marketplaceSuite) TestBuyListingAssetTransferFailureRollsBack() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(1)).Return(openListing(1, "100"), nil).Once()
	s.accessControl.On("Administrator", mock.Anything, int32(1)).Return(admin, nil).Once()
	s.listingRepo.On("Retire", mock.Anything, domain.ListingId(1), listing.StateCompleted).Return(nil).Once()
	s.valueTransfer.On("Send", mock.Anything, int32(1), string(admin), big.NewInt(1)).Return(nil).Once()
	s.valueTransfer.On("Send", mock.Anything, int32(1), string(seller), big.NewInt(99)).Return(nil).Once()
	s.assetRegistry.On("SafeTransferFrom", mock.Anything, int32(1), string(registry), string(seller), string(buyer), big.NewInt(1)).Return(errors.New("transfer reverted")).Once()
	s.listingRepo.On("Reopen", mock.Anything, domain.ListingId(1), listing.StateCompleted).Return(nil).Once()

	err := s.im.BuyListing(c, 1, "100", buyer)
	s.Equal(domain.ErrSettlementFailed, err)
	s.emitter.AssertNotCalled(s.T(), "Emit", mock.Anything, mock.Anything)
}

func (s *marketplaceSuite) TestBuyListingLostRace() {
	c := ctx.Background()

	// the listing reads open but another buy retires it first
	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(1)).Return(openListing(1, "100"), nil).Once()
	s.accessControl.On("Administrator", mock.Anything, int32(1)).Return(admin, nil).Once()
	s.listingRepo.On("Retire", mock.Anything, domain.ListingId(1), listing.StateCompleted).Return(domain.ErrListingNotOpen).Once()

	err := s.im.BuyListing(c, 1, "100", buyer)
	s.Equal(domain.ErrListingNotOpen, err)
	s.valueTransfer.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *marketplaceSuite) TestCancelListing() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(2)).Return(openListing(2, "50"), nil).Once()
	s.listingRepo.On("Retire", mock.Anything, domain.ListingId(2), listing.StateCancelled).Return(nil).Once()
	s.emitter.On("Emit", mock.Anything, mock.MatchedBy(func(ev *listing.Event) bool {
		return ev.Type == listing.EventTypeCancelled && ev.ListingId == 2
	})).Once()

	err := s.im.CancelListing(c, 2, seller)
	s.NoError(err)
}

func (s *marketplaceSuite) TestCancelListingNotSeller() {
	c := ctx.Background()

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(2)).Return(openListing(2, "50"), nil).Once()

	err := s.im.CancelListing(c, 2, buyer)
	s.Equal(domain.ErrNotSeller, err)
	s.listingRepo.AssertNotCalled(s.T(), "Retire", mock.Anything, mock.Anything, mock.Anything)
}

func (s *marketplaceSuite) TestCancelListingAlreadyClosed() {
	c := ctx.Background()

	closed := openListing(2, "50")
	closed.State = listing.StateCancelled

	s.listingRepo.On("FindOne", mock.Anything, domain.ListingId(2)).Return(closed, nil).Once()

	err := s.im.CancelListing(c, 2, seller)
	s.Equal(domain.ErrListingNotOpen, err)
}

func (s *marketplaceSuite) TestGetListingsByUser() {
	c := ctx.Background()

	want := []*listing.Listing{openListing(1, "100")}
	s.listingRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return(want, nil).Once()

	got, err := s.im.GetListingsByUser(c, seller)
	s.NoError(err)
	s.Equal(want, got)
}

func (s *marketplaceSuite) TestGetAllActiveListings() {
	c := ctx.Background()

	want := []*listing.Listing{openListing(1, "100"), openListing(2, "50")}
	s.listingRepo.On("FindAll", mock.Anything, mock.Anything).Return(want, nil).Once()

	got, err := s.im.GetAllActiveListings(c)
	s.NoError(err)
	s.Equal(want, got)
}

func TestRoyaltySplit(t *testing.T) {
	cases := []struct {
		price       string
		royalty     int64
		sellerShare int64
	}{
		{"100", 1, 99},
		{"99", 0, 99},
		{"101", 1, 100},
		{"150", 1, 149},
		{"10000", 100, 9900},
		{"1", 0, 1},
	}
	for _, tc := range cases {
		price, _ := new(big.Int).SetString(tc.price, 10)
		royalty := new(big.Int).Div(price, royaltyDivisor)
		sellerShare := new(big.Int).Sub(price, royalty)
		if royalty.Int64() != tc.royalty || sellerShare.Int64() != tc.sellerShare {
			t.Errorf("price %s: got royalty %s share %s", tc.price, royalty, sellerShare)
		}
		if new(big.Int).Add(royalty, sellerShare).Cmp(price) != 0 {
			t.Errorf("price %s: shares do not sum to payment", tc.price)
		}
	}
}
