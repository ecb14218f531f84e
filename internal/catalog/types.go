package catalog

import "time"

// Course levels.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Course represents the item stored in the courses DynamoDB table.
type Course struct {
	ID              string    `dynamodbav:"course_id" json:"id"` // PK, numeric string
	Slug            string    `dynamodbav:"slug" json:"slug"`    // GSI key
	Title           string    `dynamodbav:"title" json:"title"`
	Description     string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	OriginalPrice   float64   `dynamodbav:"original_price,omitempty" json:"original_price,omitempty"`
	DiscountedPrice float64   `dynamodbav:"discounted_price" json:"discounted_price"`
	Language        string    `dynamodbav:"language,omitempty" json:"language,omitempty"`
	Level           string    `dynamodbav:"level,omitempty" json:"level,omitempty"`
	Thumbnail       string    `dynamodbav:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	StudentCount    int       `dynamodbav:"student_count,omitempty" json:"student_count,omitempty"`
	Published       bool      `dynamodbav:"published" json:"published"`
	Featured        bool      `dynamodbav:"featured" json:"featured"`
	CreatedAt       time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt       time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// EffectivePrice returns the unit price charged at checkout. Partner students
// always pay the discounted price; everyone else pays the original price when
// one is set, falling back to the discounted price.
func (c *Course) EffectivePrice(partnerStudent bool) float64 {
	if partnerStudent {
		return c.DiscountedPrice
	}
	if c.OriginalPrice > 0 {
		return c.OriginalPrice
	}
	return c.DiscountedPrice
}
