package user

import (
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/rpc"
)

const serviceName = "User"

type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"gte=0"`
}

func (h *Handler) Register(rt *rpc.Router, authn *auth.Authenticator) {
	user := func(op rpc.Operation, fn http.HandlerFunc) {
		op.Service = serviceName
		op.Identity = rpc.IdentityUser
		rt.Handle(op, authn.Require(auth.RoleUser, fn))
	}

	user(rpc.Operation{Name: "GetMyAccount", Method: http.MethodGet, Path: "/user/account",
		Response: domain.UserAccount{}}, h.HandleGetMyAccount)
	user(rpc.Operation{Name: "UpdateMyAccount", Method: http.MethodPut, Path: "/user/account",
		Request: domain.AccountInput{}, Response: domain.UserAccount{}}, h.HandleUpdateMyAccount)
	user(rpc.Operation{Name: "DeleteMyAccount", Method: http.MethodDelete, Path: "/user/account",
		Response: domain.UserAccount{}}, h.HandleDeleteMyAccount)
	user(rpc.Operation{Name: "AddToCart", Method: http.MethodPost, Path: "/user/cart",
		Request: addToCartRequest{}, Response: domain.Product{}}, h.HandleAddToCart)
	user(rpc.Operation{Name: "RemoveFromCart", Method: http.MethodDelete, Path: "/user/cart/{productId}",
		Response: domain.Product{}}, h.HandleRemoveFromCart)
	user(rpc.Operation{Name: "Checkout", Method: http.MethodPost, Path: "/user/checkout",
		Response: domain.Order{}}, h.HandleCheckout)
	user(rpc.Operation{Name: "GetMyProducts", Method: http.MethodGet, Path: "/user/products",
		Response: []domain.Product{}}, h.HandleGetMyProducts)
	user(rpc.Operation{Name: "GetMyOrders", Method: http.MethodGet, Path: "/user/orders",
		Response: []domain.Order{}}, h.HandleGetMyOrders)
}

func (h *Handler) HandleGetMyAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.GetMyAccount(r.Context())
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	rpc.WriteJSON(w, h.logger, http.StatusOK, account)
}

func (h *Handler) HandleUpdateMyAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.AccountInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	account, err := h.svc.UpdateMyAccount(r.Context(), req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("account updated", "user_id", account.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, account)
}

func (h *Handler) HandleDeleteMyAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.DeleteMyAccount(r.Context())
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("account deleted", "user_id", account.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, account)
}

func (h *Handler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	product, err := h.svc.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product added to cart", "product_id", product.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, product)
}

func (h *Handler) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, err := rpc.PathID(r, "productId")
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	product, err := h.svc.RemoveFromCart(r.Context(), productID)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product removed from cart", "product_id", product.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, product)
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Checkout(r.Context())
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("order checked out",
		"order_id", order.ID,
		"user_id", order.UserID,
		"items", len(order.Products),
		"total", order.Total.String(),
	)
	rpc.WriteJSON(w, h.logger, http.StatusCreated, order)
}

func (h *Handler) HandleGetMyProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.GetMyProducts(r.Context())
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	rpc.WriteJSON(w, h.logger, http.StatusOK, products)
}

func (h *Handler) HandleGetMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.GetMyOrders(r.Context())
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	rpc.WriteJSON(w, h.logger, http.StatusOK, orders)
}
