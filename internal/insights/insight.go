package insights

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Insight is a manager-only summary attached to a question. Visible to all
// managers, mutable only by its creator.
type Insight struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuestionID string             `bson:"questionId" json:"questionId"`
	Summary    string             `bson:"summary" json:"summary"`
	CreatedBy  string             `bson:"createdBy" json:"createdBy"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
