package user

// UpdateInput represents the request body for patching an account.
// Absent fields are left untouched.
type UpdateInput struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"role"     validate:"omitempty,oneof=buyer seller"`
	Balance  *int64  `json:"balance"  validate:"omitempty,min=0"`
}
