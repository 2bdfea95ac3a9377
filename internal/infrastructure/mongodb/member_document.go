package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
)

// memberDocument is the stored shape of a member in the members collection.
type memberDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	PhoneNumber string             `bson:"phone_number"`
}

func (d memberDocument) toEntity() entity.Member {
	m := entity.Member{Name: d.Name, Email: d.Email, PhoneNumber: d.PhoneNumber}
	if !d.ID.IsZero() {
		m.ID = d.ID.Hex()
	}
	return m
}

func fromEntity(m *entity.Member) (memberDocument, error) {
	doc := memberDocument{Name: m.Name, Email: m.Email, PhoneNumber: m.PhoneNumber}
	if m.ID != "" {
		oid, err := primitive.ObjectIDFromHex(m.ID)
		if err != nil {
			return doc, err
		}
		doc.ID = oid
	}
	return doc, nil
}
