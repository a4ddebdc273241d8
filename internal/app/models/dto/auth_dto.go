package dto

import "github.com/hemope/doador-api/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates an account for an existing donor. The optional
// donor attributes enrich the donor record when non-empty.
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	CodigoDoador   string `json:"codigo_doador" binding:"required"`
	NomeCompleto   string `json:"nome_completo,omitempty"`
	TipoSanguineo  string `json:"tipo_sanguineo,omitempty"`
	DataNascimento string `json:"data_nascimento,omitempty"`
	Sexo           string `json:"sexo,omitempty"`
	Telefone       string `json:"telefone,omitempty"`
	DonorEmail     string `json:"email_doador,omitempty"`
	CPF            string `json:"cpf,omitempty"`
	RG             string `json:"rg,omitempty"`
	Endereco       string `json:"endereco,omitempty"`
	Cidade         string `json:"cidade,omitempty"`
	Estado         string `json:"estado,omitempty"`
	CEP            string `json:"cep,omitempty"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  *models.UserProfile `json:"user"`
	Token string              `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// SetActiveRequest toggles an account's active flag
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
