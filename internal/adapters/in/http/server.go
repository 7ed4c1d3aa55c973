package http

import (
	"context"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}

	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (commands.OrderStatusChanged, error)
	}

	DispatchBoardHandler interface {
		Handle(ctx context.Context, query queries.GetDispatchBoardQuery) (queries.GetDispatchBoardQueryResponse, error)
	}

	ActorPermissionsHandler interface {
		Handle(ctx context.Context, query queries.GetActorPermissionsQuery) (queries.GetActorPermissionsQueryResponse, error)
	}
)

// Server implements ServerInterface on top of the application use cases.
// Every handler acts as the actor the authentication middleware resolved.
type Server struct {
	createOrderHandler       CreateOrderHandler
	changeOrderStatusHandler ChangeOrderStatusHandler
	dispatchBoardHandler     DispatchBoardHandler
	actorPermissionsHandler  ActorPermissionsHandler
}

var _ ServerInterface = (*Server)(nil)

func NewServer(
	createOrderHandler CreateOrderHandler,
	changeOrderStatusHandler ChangeOrderStatusHandler,
	dispatchBoardHandler DispatchBoardHandler,
	actorPermissionsHandler ActorPermissionsHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		dispatchBoardHandler:     dispatchBoardHandler,
		actorPermissionsHandler:  actorPermissionsHandler,
	}
}

// GetMyPermissions handles GET /api/v1/me/permissions.
func (s *Server) GetMyPermissions(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	query, err := queries.NewGetActorPermissionsQuery(actor)
	if err != nil {
		return err
	}

	result, err := s.actorPermissionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	permissions := make([]string, len(result.Permissions))
	for i, p := range result.Permissions {
		permissions[i] = string(p)
	}

	return ctx.JSON(http.StatusOK, Permissions{
		UserId:      actor.UserID().Bytes(),
		TenantId:    actor.TenantID().Bytes(),
		Role:        result.Role.String(),
		Permissions: permissions,
	})
}

// CreateOrder handles POST /api/v1/orders. The id is generated when the client
// does not supply one.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err = ctx.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	orderID := kernel.NewUUID()
	if body.Id != nil {
		if orderID, err = kernel.UUIDFromGoogle(*body.Id); err != nil {
			return err
		}
	}

	cmd, err := commands.NewCreateOrderCommand(actor, orderID, body.Reference)
	if err != nil {
		return err
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{
		Id:        orderID.Bytes(),
		Reference: body.Reference,
		Status:    OrderStatus(order.Pending.String()),
	})
}

// GetDispatchBoard handles GET /api/v1/orders/board.
func (s *Server) GetDispatchBoard(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	query, err := queries.NewGetDispatchBoardQuery(actor)
	if err != nil {
		return err
	}

	result, err := s.dispatchBoardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	board := Board{Columns: make([]BoardColumn, len(result.Columns))}
	for i, column := range result.Columns {
		allowed := make([]OrderStatus, len(column.AllowedNext))
		for j, status := range column.AllowedNext {
			allowed[j] = OrderStatus(status.String())
		}

		cards := make([]BoardCard, len(column.Cards))
		for j, card := range column.Cards {
			cards[j] = BoardCard{
				Id:        card.ID.Bytes(),
				Reference: card.Reference,
				DriverId:  optionalID(card.DriverID),
				VehicleId: optionalID(card.VehicleID),
				Version:   card.Version,
				UpdatedAt: card.UpdatedAt,
			}
		}

		board.Columns[i] = BoardColumn{
			Status:      OrderStatus(column.Status.String()),
			AllowedNext: allowed,
			Orders:      cards,
		}
	}

	return ctx.JSON(http.StatusOK, board)
}

// ChangeOrderStatus handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) ChangeOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body TransitionRequest
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err = ctx.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return err
	}
	requested, err := order.ParseStatus(string(body.Status))
	if err != nil {
		return err
	}

	details := order.TransitionDetails{}
	if details.DriverID, err = parseOptionalID(body.DriverId); err != nil {
		return err
	}
	if details.VehicleID, err = parseOptionalID(body.VehicleId); err != nil {
		return err
	}
	if body.Reason != nil {
		details.Reason = *body.Reason
	}

	cmd, err := commands.NewChangeOrderStatusCommand(actor, id, requested, details)
	if err != nil {
		return err
	}

	changed, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{
		OrderId: changed.OrderID.Bytes(),
		From:    OrderStatus(changed.From.String()),
		To:      OrderStatus(changed.To.String()),
		Version: changed.Version,
	})
}

func optionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	out := id.Bytes()
	return &out
}

func parseOptionalID(id *openapi_types.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	out, err := kernel.UUIDFromGoogle(*id)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
