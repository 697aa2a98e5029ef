package handler

import (
	"net/http"
	"strconv"

	"clinicaja/internal/apierror"
	"clinicaja/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditoriaHandler struct{ svc service.AuditoriaService }

func NewAuditoriaHandler(svc service.AuditoriaService) *AuditoriaHandler {
	return &AuditoriaHandler{svc: svc}
}

// Listar godoc
// @Summary Lista el registro de auditoria, opcionalmente filtrado por entidad
// @Tags auditoria
// @Produce json
// @Security BearerAuth
// @Param entidad query string false "Entidad (sesion_caja, movimiento, liquidacion)"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamanio de pagina"
// @Success 200 {array} dto.AuditoriaResponse
// @Router /v1/auditoria [get]
func (h *AuditoriaHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > 100 {
		limit = 100
	}

	entradas, total, err := h.svc.Listar(c.Request.Context(), c.Query("entidad"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  entradas,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
