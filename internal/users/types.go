package users

import "time"

// User represents the item stored in the users DynamoDB table.
type User struct {
	ID             string    `dynamodbav:"user_id" json:"id"`
	Email          string    `dynamodbav:"email" json:"email"` // PK
	Username       string    `dynamodbav:"username,omitempty" json:"username,omitempty"`
	PasswordHash   string    `dynamodbav:"password_hash" json:"-"`
	PartnerStudent bool      `dynamodbav:"partner_student" json:"partner_student"` // qualifies for discounted pricing
	CreatedAt      time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at" json:"updated_at"`
}
