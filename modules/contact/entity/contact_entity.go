package entity

import (
	"flowsite-api/core/entity"
)

type ContactRequest struct {
	Reference string `db:"reference" json:"reference"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Company   string `db:"company" json:"company"`
	Kind      string `db:"kind" json:"kind"`
	Message   string `db:"message" json:"message"`
	entity.BaseEntity
}

type PaginatedContactRequestEntity = entity.Pagination[ContactRequest]
