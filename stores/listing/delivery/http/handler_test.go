package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validatorV10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/peermarket/goapi/base/ctx"
	bValidator "github.com/peermarket/goapi/base/validator"
	"github.com/peermarket/goapi/domain"
	listingMocks "github.com/peermarket/goapi/domain/listing/mocks"
	cacheMocks "github.com/peermarket/goapi/service/cache/mocks"
)

const (
	seller = domain.Address("0x157bf3a5ba4cbc9ae46e2b5e54b7fbbf8f95b4f8")
	buyer  = domain.Address("0xd6f440ec6e6a3c13a42cdae4d6f8ab2a2a7e3cf2")
)

type handlerSuite struct {
	suite.Suite

	marketplace *listingMocks.UseCase
	cacheSvc    *cacheMocks.Service
	h           *handler
	e           *echo.Echo
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	s.marketplace = &listingMocks.UseCase{}
	s.cacheSvc = &cacheMocks.Service{}
	s.h = &handler{marketplace: s.marketplace, cache: s.cacheSvc}
	s.e = echo.New()
	s.e.Validator = bValidator.NewCustomValidator(validatorV10.New())
}

func (s *handlerSuite) newContext(method, target, body string, address domain.Address) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("ctx", ctx.Background())
	c.Set("address", address)
	return c, rec
}

func (s *handlerSuite) TestCreateListingDropsActiveCache() {
	s.marketplace.On("CreateListing", mock.Anything, mock.Anything, "100", seller).
		Return(domain.ListingId(1), nil).Once()
	s.cacheSvc.On("Del", mock.Anything, activeListingsKey).Return(nil).Once()

	body := `{"chainId":1,"registry":"0x47d2c9969a1cc17d5b4aa06e27bbcbfb1f1dbbbf","tokenId":"1","price":"100"}`
	c, rec := s.newContext(http.MethodPost, "/listings", body, seller)
	s.NoError(s.h.createListing(c))
	s.Equal(http.StatusCreated, rec.Code)
	s.marketplace.AssertExpectations(s.T())
	s.cacheSvc.AssertExpectations(s.T())
}

func (s *handlerSuite) TestBuyListingDropsActiveCache() {
	s.marketplace.On("BuyListing", mock.Anything, domain.ListingId(1), "100", buyer).
		Return(nil).Once()
	s.cacheSvc.On("Del", mock.Anything, activeListingsKey).Return(nil).Once()

	c, rec := s.newContext(http.MethodPost, "/listings/1/buy", `{"payment":"100"}`, buyer)
	c.SetParamNames("id")
	c.SetParamValues("1")
	s.NoError(s.h.buyListing(c))
	s.Equal(http.StatusOK, rec.Code)
	s.marketplace.AssertExpectations(s.T())
	s.cacheSvc.AssertExpectations(s.T())
}

func (s *handlerSuite) TestCancelListingDropsActiveCache() {
	s.marketplace.On("CancelListing", mock.Anything, domain.ListingId(1), seller).
		Return(nil).Once()
	s.cacheSvc.On("Del", mock.Anything, activeListingsKey).Return(nil).Once()

	c, rec := s.newContext(http.MethodPost, "/listings/1/cancel", "", seller)
	c.SetParamNames("id")
	c.SetParamValues("1")
	s.NoError(s.h.cancelListing(c))
	s.Equal(http.StatusOK, rec.Code)
	s.marketplace.AssertExpectations(s.T())
	s.cacheSvc.AssertExpectations(s.T())
}

// a rejected mutation leaves the cached open set untouched
func (s *handlerSuite) TestFailedMutationKeepsActiveCache() {
	s.marketplace.On("BuyListing", mock.Anything, domain.ListingId(1), "99", buyer).
		Return(domain.ErrWrongPrice).Once()

	c, rec := s.newContext(http.MethodPost, "/listings/1/buy", `{"payment":"99"}`, buyer)
	c.SetParamNames("id")
	c.SetParamValues("1")
	s.NoError(s.h.buyListing(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.cacheSvc.AssertNotCalled(s.T(), "Del", mock.Anything, mock.Anything)
}
