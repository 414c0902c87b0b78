package product

// CreateInput represents the request body for creating a listing.
type CreateInput struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Price    int64  `json:"price"    validate:"required,gt=0"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// UpdateInput represents the request body for patching a listing.
// Absent fields are left untouched.
type UpdateInput struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
	Price    *int64  `json:"price"    validate:"omitempty,gt=0"`
	Quantity *int64  `json:"quantity" validate:"omitempty,min=0"`
}
