// internal/membership/domain.go
package membership

import (
	"time"

	"github.com/google/uuid"
)

// Member represents a registered library member.
type Member struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

// credential holds a member's salted password hash. Never serialized.
type credential struct {
	passwordHash string
	salt         string
}
