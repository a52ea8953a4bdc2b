package request

type FieldRequest struct {
	Name string `json:"name" validate:"required,max=45"`
	Type string `json:"type" validate:"required,oneof=soccer minisoccer futsal basketball volleyball"`
}
