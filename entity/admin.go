package entity

import (
	"fmt"
	"net/http"
	"tourneybot/lib/validate"
)

// Identity is whoever sent an update or API request.
// Admin decisions are always made on an Identity, see workflow.AdminPolicy.
type Identity struct {
	UserID   int64  `json:"user_id"`
	ChatID   int64  `json:"chat_id"`
	Username string `json:"username"`
}

func (i Identity) String() string {
	if i.Username != "" {
		return fmt.Sprintf("@%s (%d)", i.Username, i.UserID)
	}
	return fmt.Sprintf("%d", i.UserID)
}

// ClearRequest is the body of the destructive API clear operation.
type ClearRequest struct {
	Confirm string `json:"confirm" validate:"required,eq=confirm"`
}

func (c *ClearRequest) Bind(_ *http.Request) error {
	return validate.Struct(c)
}
