package auth

import (
	"context"
)

// GetClientIDFromContext retrieves the authenticated client id from the
// request context. Returns the id and true if found, otherwise "" and false.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	return clientID, ok
}
