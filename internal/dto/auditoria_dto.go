package dto

type AuditoriaResponse struct {
	ID          string  `json:"id"`
	Entidad     string  `json:"entidad"`
	EntidadID   string  `json:"entidad_id"`
	Evento      string  `json:"evento"`
	Descripcion string  `json:"descripcion"`
	UsuarioID   *string `json:"usuario_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
