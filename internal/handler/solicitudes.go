package handler

import (
	"net/http"

	"clinicaja/internal/apierror"
	"clinicaja/internal/dto"
	"clinicaja/internal/middleware"
	"clinicaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SolicitudHandler struct{ svc service.SolicitudService }

func NewSolicitudHandler(svc service.SolicitudService) *SolicitudHandler {
	return &SolicitudHandler{svc: svc}
}

// Crear godoc
// @Summary Crea una solicitud de servicios congelando precio y comision por linea
// @Tags solicitudes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearSolicitudRequest true "Solicitud"
// @Success 201 {object} dto.SolicitudResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/solicitudes [post]
func (h *SolicitudHandler) Crear(c *gin.Context) {
	var req dto.CrearSolicitudRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary Devuelve una solicitud con sus detalles
// @Tags solicitudes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de solicitud"
// @Success 200 {object} dto.SolicitudResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/solicitudes/{id} [get]
func (h *SolicitudHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista las solicitudes de un paciente
// @Tags solicitudes
// @Produce json
// @Security BearerAuth
// @Param paciente_id query string true "ID de paciente"
// @Success 200 {array} dto.SolicitudResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/solicitudes [get]
func (h *SolicitudHandler) Listar(c *gin.Context) {
	pacienteID, err := uuid.Parse(c.Query("paciente_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("paciente_id inválido"))
		return
	}
	resp, err := h.svc.ListarPorPaciente(c.Request.Context(), pacienteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
