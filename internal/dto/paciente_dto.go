package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPacienteRequest struct {
	Documento       string  `json:"documento"        validate:"required,min=5,max=20"`
	Nombre          string  `json:"nombre"           validate:"required,min=2,max=100"`
	Apellido        string  `json:"apellido"         validate:"required,min=2,max=100"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
}

type ActualizarPacienteRequest struct {
	Nombre    string  `json:"nombre"   validate:"omitempty,min=2,max=100"`
	Apellido  string  `json:"apellido" validate:"omitempty,min=2,max=100"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PacienteResponse struct {
	ID              string  `json:"id"`
	Documento       string  `json:"documento"`
	Nombre          string  `json:"nombre"`
	Apellido        string  `json:"apellido"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	Direccion       *string `json:"direccion"`
	Activo          bool    `json:"activo"`
}
