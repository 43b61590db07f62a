package handler

import (
	"net/http"

	"floraops/internal/middleware"
	"floraops/internal/service"
	"floraops/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	assignments := router.Group("/api/orders/:id")
	{
		assignments.GET("/assignment", middleware.RequireRole("admin", "manager", "staff"), h.GetAssignment)
		assignments.POST("/collection", middleware.RequireRole("admin", "manager", "staff"), h.SubmitCollection)
		assignments.POST("/packaging", middleware.RequireRole("admin", "manager", "staff"), h.SubmitPackaging)
		assignments.POST("/dispatch", middleware.RequireRole("admin", "manager", "staff"), h.SubmitDispatch)
		assignments.POST("/review", middleware.RequireRole("admin", "manager"), h.SubmitReview)
	}
}

// GetAssignment returns (and lazily creates) the workflow state for an order
// @Summary      Get assignment
// @Description  Retrieves the per-stage workflow state for an order, creating it on first access
// @Tags         assignments
// @Security     BearerAuth
// @Produce      json
// @Param        id  path      string  true  "Order ID"
// @Success      200 {object}  response.Response
// @Failure      404 {object}  response.Response
// @Router       /api/orders/{id}/assignment [get]
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	assignment, err := h.assignmentService.GetByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}

// SubmitCollection submits the stage-1 collection payload
// @Summary      Submit collection stage
// @Description  Records who each product is collected from and the delivery routes
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Order ID"
// @Param        payload  body      service.SubmitCollectionRequest  true  "Collection Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/{id}/collection [post]
func (h *AssignmentHandler) SubmitCollection(c *gin.Context) {
	var req service.SubmitCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	assignment, err := h.assignmentService.SubmitCollection(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}

// SubmitPackaging submits the stage-2 packaging payload
// @Summary      Submit packaging stage
// @Description  Validates packing against the order budget, runs FIFO reuse, and records leftovers
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Order ID"
// @Param        payload  body      service.SubmitPackagingRequest  true  "Packaging Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/{id}/packaging [post]
func (h *AssignmentHandler) SubmitPackaging(c *gin.Context) {
	var req service.SubmitPackagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	assignment, err := h.assignmentService.SubmitPackaging(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}

// SubmitDispatch submits the stage-3 dispatch payload
// @Summary      Submit dispatch stage
// @Description  Records dispatch details and consumes packaging material on first submission
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Order ID"
// @Param        payload  body      service.SubmitDispatchRequest  true  "Dispatch Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/orders/{id}/dispatch [post]
func (h *AssignmentHandler) SubmitDispatch(c *gin.Context) {
	var req service.SubmitDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	assignment, err := h.assignmentService.SubmitDispatch(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}

// SubmitReview submits the terminal stage-4 review payload
// @Summary      Submit review stage
// @Description  Confirms per-product market prices; rejected if any price is missing or zero
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Order ID"
// @Param        payload  body      service.SubmitReviewRequest  true  "Review Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/{id}/review [post]
func (h *AssignmentHandler) SubmitReview(c *gin.Context) {
	var req service.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	assignment, err := h.assignmentService.SubmitReview(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}
