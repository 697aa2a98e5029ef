package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clinicaja/internal/apierror"
	"clinicaja/internal/dto"
	"clinicaja/internal/middleware"
	"clinicaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LiquidacionHandler struct{ svc service.LiquidacionService }

func NewLiquidacionHandler(svc service.LiquidacionService) *LiquidacionHandler {
	return &LiquidacionHandler{svc: svc}
}

// Previa godoc
// @Summary Calcula la liquidacion previa de un profesional sin persistir nada
// @Tags liquidaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PreviaLiquidacionRequest true "Profesional y periodo"
// @Success 200 {object} dto.PreviaLiquidacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/liquidaciones/previa [post]
func (h *LiquidacionHandler) Previa(c *gin.Context) {
	var req dto.PreviaLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CalcularPrevia(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Generar godoc
// @Summary Genera una liquidacion en borrador reclamando los movimientos del periodo
// @Tags liquidaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerarLiquidacionRequest true "Profesional y periodo"
// @Success 201 {object} dto.LiquidacionResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/liquidaciones [post]
func (h *LiquidacionHandler) Generar(c *gin.Context) {
	var req dto.GenerarLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Generar(c.Request.Context(), usuarioID, req)
	if err != nil {
		if errors.Is(err, service.ErrConflictoLiquidacion) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Aprobar godoc
// @Summary Aprueba una liquidacion en borrador
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de liquidacion"
// @Success 200 {object} dto.LiquidacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/liquidaciones/{id}/aprobar [post]
func (h *LiquidacionHandler) Aprobar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Aprobar(c.Request.Context(), id, usuarioID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagar godoc
// @Summary Paga una liquidacion aprobada registrando el egreso en caja
// @Tags liquidaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de liquidacion"
// @Param body body dto.PagarLiquidacionRequest true "Sesion de caja"
// @Success 200 {object} dto.LiquidacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/liquidaciones/{id}/pagar [post]
func (h *LiquidacionHandler) Pagar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.PagarLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Pagar(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RevertirPago godoc
// @Summary Revierte el pago de una liquidacion cancelando el egreso
// @Tags liquidaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de liquidacion"
// @Param body body dto.RevertirPagoRequest true "Motivo"
// @Success 200 {object} dto.LiquidacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/liquidaciones/{id}/revertir-pago [post]
func (h *LiquidacionHandler) RevertirPago(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.RevertirPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RevertirPago(c.Request.Context(), id, usuarioID, req.Motivo)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar godoc
// @Summary Cancela una liquidacion liberando sus movimientos
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de liquidacion"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/liquidaciones/{id}/cancelar [post]
func (h *LiquidacionHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Cancelar(c.Request.Context(), id, usuarioID); err != nil {
		if errors.Is(err, service.ErrLiquidacionPagada) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Obtener godoc
// @Summary Devuelve una liquidacion con sus detalles
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de liquidacion"
// @Success 200 {object} dto.LiquidacionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/liquidaciones/{id} [get]
func (h *LiquidacionHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista liquidaciones con filtros por profesional y estado
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LiquidacionListResponse
// @Router /v1/liquidaciones [get]
func (h *LiquidacionHandler) Listar(c *gin.Context) {
	filter := dto.LiquidacionFilter{Estado: c.Query("estado")}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	if raw := c.Query("profesional_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("profesional_id inválido"))
			return
		}
		filter.ProfesionalID = &id
	}

	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
