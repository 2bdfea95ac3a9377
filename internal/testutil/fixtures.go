package testutil

import "github.com/oksasatya/go-kitchensink/internal/domain/entity"

// Member builds a valid member with a fixed phone number.
func Member(name, email string) entity.Member {
	return entity.Member{Name: name, Email: email, PhoneNumber: "2125551212"}
}
