package entity

// Member is the aggregate root for the member registry.
//
// ID is opaque to callers: Postgres renders its BIGSERIAL key in decimal,
// MongoDB uses the ObjectID hex string. Both store it natively.
type Member struct {
	ID          string `json:"id"`
	Name        string `json:"name" form:"name" validate:"required,max=25,nodigits"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"required,phone"`
}

// IsNew reports whether the member has not been persisted yet.
func (m *Member) IsNew() bool {
	return m.ID == ""
}
