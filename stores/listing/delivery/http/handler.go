package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/delivery"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/domain/activity"
	"github.com/peermarket/goapi/domain/listing"
	"github.com/peermarket/goapi/middleware"
	"github.com/peermarket/goapi/service/cache"
	authMiddleware "github.com/peermarket/goapi/stores/auth/delivery/http/middleware"
	"golang.org/x/xerrors"
)

// activeListingsKey caches the open listing set. Any successful mutation
// drops it so the next read rebuilds from the store.
const activeListingsKey = "activeListings"

type handler struct {
	marketplace listing.UseCase
	activity    activity.Repo
	cache       cache.Service
}

func New(
	e *echo.Echo,
	authMiddleware *authMiddleware.AuthMiddleware,
	marketplace listing.UseCase,
	activity activity.Repo,
	cache cache.Service,
) {
	h := &handler{marketplace: marketplace, activity: activity, cache: cache}

	g := e.Group("/listings")
	g.GET("", h.getAllActiveListings)
	g.POST("", h.createListing, authMiddleware.Auth())
	g.POST("/:id/buy", h.buyListing, authMiddleware.Auth())
	g.POST("/:id/cancel", h.cancelListing, authMiddleware.Auth())

	a := e.Group("/accounts/:account")
	a.GET("/listings", h.getListingsByUser, middleware.IsValidAddress("account"))
	a.GET("/activities", h.getActivities, middleware.IsValidAddress("account"))
}

// statusOf maps marketplace errors onto http statuses. Settlement failure
// is the only post-commit error, everything else is a rejected
// precondition.
func statusOf(err error) int {
	switch err {
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrApprovalRequired, domain.ErrNotSeller:
		return http.StatusForbidden
	case domain.ErrAlreadyListed, domain.ErrListingNotOpen:
		return http.StatusConflict
	case domain.ErrWrongPrice, domain.ErrBadParamInput, domain.ErrInvalidNumberFormat:
		return http.StatusBadRequest
	case domain.ErrSettlementFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// createListing
//
//	@Description	Create a fixed price listing
//	@Tags			listings
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Success		201	{object}	object{data=uint64}
//	@Failure		400
//	@Failure		403
//	@Failure		409
//	@Router			/listings [post]
func (h *handler) createListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	seller := c.Get("address").(domain.Address)

	type params struct {
		ChainId  domain.ChainId `json:"chainId" validate:"required"`
		Registry domain.Address `json:"registry" validate:"required"`
		TokenId  domain.TokenId `json:"tokenId" validate:"required"`
		Price    string         `json:"price" validate:"required"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	asset := listing.AssetId{ChainId: p.ChainId, Registry: p.Registry, TokenId: p.TokenId}
	id, err := h.marketplace.CreateListing(ctx, asset, p.Price, seller)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	h.cache.Del(ctx, activeListingsKey)
	return delivery.MakeJsonResp(c, http.StatusCreated, id)
}

// buyListing
//
//	@Description	Buy a listing with exact payment
//	@Tags			listings
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path	int	true	"listing id"
//	@Success		200
//	@Failure		400
//	@Failure		409
//	@Failure		502
//	@Router			/listings/{id}/buy [post]
func (h *handler) buyListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	buyer := c.Get("address").(domain.Address)

	id, err := parseListingId(c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type params struct {
		Payment string `json:"payment" validate:"required"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.BuyListing(ctx, id, p.Payment, buyer); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	h.cache.Del(ctx, activeListingsKey)
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// cancelListing
//
//	@Description	Withdraw an unsold listing, seller only
//	@Tags			listings
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path	int	true	"listing id"
//	@Success		200
//	@Failure		403
//	@Failure		409
//	@Router			/listings/{id}/cancel [post]
func (h *handler) cancelListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	id, err := parseListingId(c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.CancelListing(ctx, id, caller); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	h.cache.Del(ctx, activeListingsKey)
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getAllActiveListings
//
//	@Description	Get all open listings
//	@Tags			listings
//	@Produce		json
//	@Success		200	{object}	[]listing.Listing
//	@Router			/listings [get]
func (h *handler) getAllActiveListings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res := []*listing.Listing{}
	err := h.cache.GetByFunc(ctx, activeListingsKey, &res, func() (interface{}, error) {
		listings, err := h.marketplace.GetAllActiveListings(ctx)
		if err != nil {
			return nil, err
		}
		return &listings, nil
	})
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getListingsByUser
//
//	@Description	Get an account's open listings
//	@Tags			listings
//	@Produce		json
//	@Param			account	path		string	true	"address"
//	@Success		200		{object}	[]listing.Listing
//	@Router			/accounts/{account}/listings [get]
func (h *handler) getListingsByUser(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	account := domain.Address(c.Param("account"))

	res, err := h.marketplace.GetListingsByUser(ctx, account)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getActivities
//
//	@Description	Get an account's marketplace activity history
//	@Tags			listings
//	@Produce		json
//	@Param			account	path		string	true	"address"
//	@Success		200		{object}	[]activity.Activity
//	@Router			/accounts/{account}/activities [get]
func (h *handler) getActivities(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	account := domain.Address(c.Param("account"))

	offset, limit := int32(0), int32(50)
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		offset = int32(n)
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		limit = int32(n)
	}

	res, err := h.activity.FindAll(ctx, activity.WithAccount(account), activity.WithPagination(offset, limit))
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func parseListingId(raw string) (domain.ListingId, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("invalid listing id %q", raw)
	}
	return domain.ListingId(id), nil
}
