package answers

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer is the persistent answer model. QuestionID and CreatedBy hold hex
// ids referencing the parent question and the author.
type Answer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuestionID string             `bson:"questionId" json:"questionId"`
	Answer     string             `bson:"answer" json:"answer"`
	CreatedBy  string             `bson:"createdBy" json:"createdBy"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
