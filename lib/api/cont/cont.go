package cont

import (
	"context"
	"tourneybot/entity"
)

type ctxKey string

const AdminKey ctxKey = "admin"

func PutAdmin(c context.Context, admin entity.Identity) context.Context {
	return context.WithValue(c, AdminKey, admin)
}

// GetAdmin returns the identity put by the authenticate middleware, if any.
func GetAdmin(c context.Context) (entity.Identity, bool) {
	admin, ok := c.Value(AdminKey).(entity.Identity)
	return admin, ok
}
