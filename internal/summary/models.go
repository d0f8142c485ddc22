package summary

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Summary is a stored text summary of a URL, owned by the user who created it.
type Summary struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	URL       string             `bson:"url" json:"url"`
	Summary   string             `bson:"summary" json:"summary"`
	UserID    string             `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
