package storefront

import (
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/rpc"
)

const serviceName = "Storefront"

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

func (h *Handler) Register(rt *rpc.Router) {
	rt.Handle(rpc.Operation{
		Service: serviceName, Name: "ListProducts",
		Method: http.MethodGet, Path: "/storefront/products",
		Response: []domain.Product{},
	}, h.HandleListProducts)
	rt.Handle(rpc.Operation{
		Service: serviceName, Name: "GetProduct",
		Method: http.MethodGet, Path: "/storefront/products/{id}",
		Response: domain.Product{},
	}, h.HandleGetProduct)
	rt.Handle(rpc.Operation{
		Service: serviceName, Name: "RegisterUser",
		Method: http.MethodPost, Path: "/storefront/users",
		Request: domain.AccountInput{}, Response: domain.UserAccount{},
	}, h.HandleRegisterUser)
	rt.Handle(rpc.Operation{
		Service: serviceName, Name: "Login",
		Method: http.MethodPost, Path: "/storefront/login",
		Request: domain.LoginInput{}, Response: auth.Token{},
	}, h.HandleLogin)
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	rpc.WriteJSON(w, h.logger, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := rpc.PathID(r, "id")
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	rpc.WriteJSON(w, h.logger, http.StatusOK, product)
}

func (h *Handler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req domain.AccountInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.svc.RegisterUser(r.Context(), req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	rpc.WriteJSON(w, h.logger, http.StatusCreated, user)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	rpc.WriteJSON(w, h.logger, http.StatusOK, token)
}
