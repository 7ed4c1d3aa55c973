package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// OrderStatus is the wire name of an order status.
type OrderStatus string

type NewOrder struct {
	Id        *openapi_types.UUID `json:"id,omitempty"`
	Reference string              `json:"reference" validate:"required,max=64"`
}

type CreatedOrder struct {
	Id        openapi_types.UUID `json:"id"`
	Reference string             `json:"reference"`
	Status    OrderStatus        `json:"status"`
}

type TransitionRequest struct {
	Status    OrderStatus         `json:"status" validate:"required,oneof=pending assigned in_progress delivered cancelled failed"`
	DriverId  *openapi_types.UUID `json:"driverId,omitempty"`
	VehicleId *openapi_types.UUID `json:"vehicleId,omitempty"`
	Reason    *string             `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type TransitionResponse struct {
	OrderId openapi_types.UUID `json:"orderId"`
	From    OrderStatus        `json:"from"`
	To      OrderStatus        `json:"to"`
	Version int64              `json:"version"`
}

type BoardCard struct {
	Id        openapi_types.UUID  `json:"id"`
	Reference string              `json:"reference"`
	DriverId  *openapi_types.UUID `json:"driverId,omitempty"`
	VehicleId *openapi_types.UUID `json:"vehicleId,omitempty"`
	Version   int64               `json:"version"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type BoardColumn struct {
	Status      OrderStatus   `json:"status"`
	AllowedNext []OrderStatus `json:"allowedNext"`
	Orders      []BoardCard   `json:"orders"`
}

type Board struct {
	Columns []BoardColumn `json:"columns"`
}

type Permissions struct {
	UserId      openapi_types.UUID `json:"userId"`
	TenantId    openapi_types.UUID `json:"tenantId"`
	Role        string             `json:"role"`
	Permissions []string           `json:"permissions"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Permissions held by the caller's role
	// (GET /api/v1/me/permissions)
	GetMyPermissions(ctx echo.Context) error
	// Register a pending order in the caller's tenant
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// Active orders of the caller's tenant grouped by status
	// (GET /api/v1/orders/board)
	GetDispatchBoard(ctx echo.Context) error
	// Move an order to another status
	// (POST /api/v1/orders/{orderId}/transitions)
	ChangeOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetMyPermissions converts echo context to params.
func (w *ServerInterfaceWrapper) GetMyPermissions(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.GetMyPermissions(ctx)
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.CreateOrder(ctx)
}

// GetDispatchBoard converts echo context to params.
func (w *ServerInterfaceWrapper) GetDispatchBoard(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.GetDispatchBoard(ctx)
}

// ChangeOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.ChangeOrderStatus(ctx, orderId)
}

// EchoRouter is implemented by both echo.Echo and echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the handlers under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/me/permissions", wrapper.GetMyPermissions)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/board", wrapper.GetDispatchBoard)
	router.POST(baseURL+"/api/v1/orders/:orderId/transitions", wrapper.ChangeOrderStatus)
}
