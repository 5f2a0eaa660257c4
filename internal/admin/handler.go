package admin

import (
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/rpc"
)

const serviceName = "Admin"

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

// Register mounts every Admin operation. All but Login require an admin
// principal.
func (h *Handler) Register(rt *rpc.Router, authn *auth.Authenticator) {
	rt.Handle(rpc.Operation{
		Service: serviceName, Name: "Login",
		Method: http.MethodPost, Path: "/admin/login",
		Request: domain.LoginInput{}, Response: auth.Token{},
	}, h.HandleLogin)

	admin := func(op rpc.Operation, fn http.HandlerFunc) {
		op.Service = serviceName
		op.Identity = rpc.IdentityAdmin
		rt.Handle(op, authn.Require(auth.RoleAdmin, fn))
	}

	admin(rpc.Operation{Name: "ListProducts", Method: http.MethodGet, Path: "/admin/products",
		Response: []domain.Product{}}, h.HandleListProducts)
	admin(rpc.Operation{Name: "GetProduct", Method: http.MethodGet, Path: "/admin/products/{id}",
		Response: domain.Product{}}, h.HandleGetProduct)
	admin(rpc.Operation{Name: "CreateProduct", Method: http.MethodPost, Path: "/admin/products",
		Request: domain.ProductInput{}, Response: domain.Product{}}, h.HandleCreateProduct)
	admin(rpc.Operation{Name: "UpdateProduct", Method: http.MethodPut, Path: "/admin/products/{id}",
		Request: domain.ProductInput{}, Response: domain.Product{}}, h.HandleUpdateProduct)
	admin(rpc.Operation{Name: "DeleteProduct", Method: http.MethodDelete, Path: "/admin/products/{id}",
		Response: domain.Product{}}, h.HandleDeleteProduct)

	admin(rpc.Operation{Name: "ListOrders", Method: http.MethodGet, Path: "/admin/orders",
		Response: []domain.Order{}}, h.HandleListOrders)
	admin(rpc.Operation{Name: "GetOrder", Method: http.MethodGet, Path: "/admin/orders/{id}",
		Response: domain.Order{}}, h.HandleGetOrder)
	admin(rpc.Operation{Name: "UpdateOrder", Method: http.MethodPut, Path: "/admin/orders/{id}",
		Request: domain.OrderInput{}, Response: domain.Order{}}, h.HandleUpdateOrder)
	admin(rpc.Operation{Name: "DeleteOrder", Method: http.MethodDelete, Path: "/admin/orders/{id}",
		Response: domain.Order{}}, h.HandleDeleteOrder)

	admin(rpc.Operation{Name: "ListAdmins", Method: http.MethodGet, Path: "/admin/admins",
		Response: []domain.AdminAccount{}}, h.HandleListAdmins)
	admin(rpc.Operation{Name: "GetAdmin", Method: http.MethodGet, Path: "/admin/admins/{id}",
		Response: domain.AdminAccount{}}, h.HandleGetAdmin)
	admin(rpc.Operation{Name: "CreateAdmin", Method: http.MethodPost, Path: "/admin/admins",
		Request: domain.AccountInput{}, Response: domain.AdminAccount{}}, h.HandleCreateAdmin)
	admin(rpc.Operation{Name: "UpdateSelf", Method: http.MethodPut, Path: "/admin/admins/me",
		Request: domain.AccountInput{}, Response: domain.AdminAccount{}}, h.HandleUpdateSelf)
	admin(rpc.Operation{Name: "DeleteAdmin", Method: http.MethodDelete, Path: "/admin/admins/{id}",
		Response: domain.AdminAccount{}}, h.HandleDeleteAdmin)

	admin(rpc.Operation{Name: "ListUsers", Method: http.MethodGet, Path: "/admin/users",
		Response: []domain.UserAccount{}}, h.HandleListUsers)
	admin(rpc.Operation{Name: "GetUser", Method: http.MethodGet, Path: "/admin/users/{id}",
		Response: domain.UserAccount{}}, h.HandleGetUser)
	admin(rpc.Operation{Name: "CreateUser", Method: http.MethodPost, Path: "/admin/users",
		Request: domain.AccountInput{}, Response: domain.UserAccount{}}, h.HandleCreateUser)
	admin(rpc.Operation{Name: "DeleteUser", Method: http.MethodDelete, Path: "/admin/users/{id}",
		Response: domain.UserAccount{}}, h.HandleDeleteUser)
	admin(rpc.Operation{Name: "GetProductsByUser", Method: http.MethodGet, Path: "/admin/users/{id}/products",
		Response: []domain.Product{}}, h.HandleGetProductsByUser)
	admin(rpc.Operation{Name: "GetOrdersByUser", Method: http.MethodGet, Path: "/admin/users/{id}/orders",
		Response: []domain.Order{}}, h.HandleGetOrdersByUser)
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

// Products

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	h.respond(w, r, http.StatusOK, products, err)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	h.respond(w, r, http.StatusOK, product, err)
}

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product created", "product_id", product.ID)
	rpc.WriteJSON(w, h.logger, http.StatusCreated, product)
}

func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req domain.ProductInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), id, req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product updated", "product_id", product.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, product)
}

func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	product, err := h.svc.DeleteProduct(r.Context(), id)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product deleted", "product_id", product.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, product)
}

// Orders

func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	h.respond(w, r, http.StatusOK, orders, err)
}

func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) HandleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req domain.OrderInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	order, err := h.svc.UpdateOrder(r.Context(), id, req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("order updated", "order_id", order.ID, "status", order.Status)
	rpc.WriteJSON(w, h.logger, http.StatusOK, order)
}

func (h *Handler) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.DeleteOrder(r.Context(), id)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("order deleted", "order_id", order.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, order)
}

// Admin accounts

func (h *Handler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.ListAdmins(r.Context())
	h.respond(w, r, http.StatusOK, admins, err)
}

func (h *Handler) HandleGetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	admin, err := h.svc.GetAdmin(r.Context(), id)
	h.respond(w, r, http.StatusOK, admin, err)
}

func (h *Handler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req domain.AccountInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	admin, err := h.svc.CreateAdmin(r.Context(), req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("admin created", "admin_id", admin.ID)
	rpc.WriteJSON(w, h.logger, http.StatusCreated, admin)
}

func (h *Handler) HandleUpdateSelf(w http.ResponseWriter, r *http.Request) {
	var req domain.AccountInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	admin, err := h.svc.UpdateSelf(r.Context(), req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("admin updated", "admin_id", admin.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, admin)
}

func (h *Handler) HandleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	admin, err := h.svc.DeleteAdmin(r.Context(), id)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("admin deleted", "admin_id", admin.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, admin)
}

// User accounts

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	h.respond(w, r, http.StatusOK, users, err)
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(r.Context(), id)
	h.respond(w, r, http.StatusOK, user, err)
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.AccountInput
	if err := rpc.Decode(r, &req); err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user created", "user_id", user.ID)
	rpc.WriteJSON(w, h.logger, http.StatusCreated, user)
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	user, err := h.svc.DeleteUser(r.Context(), id)
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user deleted", "user_id", user.ID)
	rpc.WriteJSON(w, h.logger, http.StatusOK, user)
}

func (h *Handler) HandleGetProductsByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	products, err := h.svc.GetProductsByUser(r.Context(), id)
	h.respond(w, r, http.StatusOK, products, err)
}

func (h *Handler) HandleGetOrdersByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	orders, err := h.svc.GetOrdersByUser(r.Context(), id)
	h.respond(w, r, http.StatusOK, orders, err)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := rpc.PathID(r, "id")
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return 0, false
	}
	return id, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	if err != nil {
		rpc.WriteError(w, r, h.logger, err)
		return
	}
	rpc.WriteJSON(w, h.logger, status, data)
}
