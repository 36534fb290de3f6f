package questions

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is the persistent question model. CreatedBy holds the author's
// user id in hex form; tag order is preserved for display.
type Question struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Tags        []string           `bson:"tags" json:"tags"`
	CreatedBy   string             `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Filter selects questions for listing. Zero values disable the
// corresponding condition; Search and Tags compose with logical AND.
type Filter struct {
	Search    string   // case-insensitive substring match on title
	Tags      []string // tag-set intersection
	CreatedBy string
}

// Patch is an explicit partial update: nil fields keep the stored value.
type Patch struct {
	Title       *string
	Description *string
	Tags        *[]string
}
