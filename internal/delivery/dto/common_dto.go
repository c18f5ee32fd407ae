package dto

import (
	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// PageQuery is the page/limit pair read from list endpoints.
type PageQuery struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (q PageQuery) ToPage() entity.Page {
	return entity.Page{Number: q.Page, Size: q.Limit}.Normalize()
}

// CatalogQuery filters locations, services and employees.
type CatalogQuery struct {
	PageQuery
	CompanyID  *uuid.UUID
	ActiveOnly bool
}
