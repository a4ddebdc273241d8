package models

import "time"

// Donor is a row of the donors table. CodigoDoador is the natural key and never changes.
type Donor struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	CodigoDoador   string    `json:"codigo_doador" db:"codigo_doador" example:"D1"`
	NomeCompleto   string    `json:"nome_completo" db:"nome_completo" example:"Maria da Silva"`
	TipoSanguineo  string    `json:"tipo_sanguineo" db:"tipo_sanguineo" example:"O+"`
	DataNascimento *string   `json:"data_nascimento,omitempty" db:"data_nascimento" example:"1990-05-15"`
	Sexo           *string   `json:"sexo,omitempty" db:"sexo" example:"F"`
	Telefone       *string   `json:"telefone,omitempty" db:"telefone"`
	Email          *string   `json:"email,omitempty" db:"email"`
	CPF            *string   `json:"cpf,omitempty" db:"cpf"`
	RG             *string   `json:"rg,omitempty" db:"rg"`
	Endereco       *string   `json:"endereco,omitempty" db:"endereco"`
	Cidade         *string   `json:"cidade,omitempty" db:"cidade"`
	Estado         *string   `json:"estado,omitempty" db:"estado"`
	CEP            *string   `json:"cep,omitempty" db:"cep"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// DonorRecord is the set of donor attributes carried by one import row or
// a registration enrichment. Nil optional fields leave stored values alone.
type DonorRecord struct {
	CodigoDoador   string
	NomeCompleto   string
	TipoSanguineo  string
	DataNascimento *string
	Sexo           *string
	Telefone       *string
	Email          *string
	CPF            *string
	RG             *string
	Endereco       *string
	Cidade         *string
	Estado         *string
	CEP            *string
}

// DonorUpdate holds the non-key donor attributes to overwrite. Nil fields are kept.
type DonorUpdate struct {
	NomeCompleto   *string
	TipoSanguineo  *string
	DataNascimento *string
	Sexo           *string
	Telefone       *string
	Email          *string
	CPF            *string
	RG             *string
	Endereco       *string
	Cidade         *string
	Estado         *string
	CEP            *string
}

// IsEmpty reports whether the update would change nothing.
func (u DonorUpdate) IsEmpty() bool {
	for _, p := range []*string{
		u.NomeCompleto, u.TipoSanguineo, u.DataNascimento, u.Sexo, u.Telefone, u.Email,
		u.CPF, u.RG, u.Endereco, u.Cidade, u.Estado, u.CEP,
	} {
		if p != nil {
			return false
		}
	}
	return true
}
