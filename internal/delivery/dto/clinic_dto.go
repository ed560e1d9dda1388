package dto

type CreateClinicRequest struct {
	Code string `json:"code" validate:"required,min=2,max=30"`
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type UpdateClinicRequest struct {
	Code *string `json:"code,omitempty" validate:"omitempty,min=2,max=30"`
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
}

type ClinicResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
