package contextkeys

// Unexported key type avoids collisions with other packages.
type contextKey string

// DBContextKey stores the request-scoped *gorm.DB in the gin context.
const DBContextKey = contextKey("db")

// UserIDKey and RoleKey are set by the auth middleware.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)
