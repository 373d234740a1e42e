package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/freshmart-lab/commerce-core/internal/model"
	"github.com/freshmart-lab/commerce-core/internal/service"
	"github.com/freshmart-lab/commerce-core/pkg/response"
)

type orderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type createOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerEmail   string             `json:"customer_email" binding:"required,email"`
	PhoneNumber     string             `json:"phone_number"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	Items           []orderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

// CreateOrder places a new order
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body createOrderRequest true "order request"
// @Success 201 {object} response.Response{data=model.Order}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/v1/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items := make([]service.CreateOrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.CreateOrderItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	order, err := h.orderService.Create(c.Request.Context(), service.CreateOrderRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	})
	if err != nil {
		if errors.Is(err, service.ErrUpstreamUnavailable) {
			response.BadGateway(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, order)
}

// GetOrder returns a single order
// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 404 {object} response.Response
// @Router /api/v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders lists orders, optionally filtered by customer email
// @Summary List orders
// @Tags orders
// @Produce json
// @Param email query string false "customer email filter"
// @Success 200 {object} response.Response{data=[]model.Order}
// @Router /api/v1/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	var (
		orders []*model.Order
		err    error
	)
	if email := c.Query("email"); email != "" {
		orders, err = h.orderService.ListByCustomerEmail(c.Request.Context(), email)
	} else {
		orders, err = h.orderService.ListAll(c.Request.Context())
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, orders)
}

// UpdateOrderStatus patches the order status
// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param request body updateStatusRequest true "new status"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), model.OrderStatus(req.Status))
	switch {
	case err == nil:
		response.Success(c, order)
	case errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrStatusConflict):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// DeleteOrder removes an order
// @Summary Delete order
// @Tags orders
// @Param id path string true "order id"
// @Success 200 {object} response.Response
// @Router /api/v1/orders/{id} [delete]
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
