package utils

import (
	"github.com/gin-gonic/gin"
)

// Role names carried in the JWT roles claim.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleExpert    = "expert"
	RoleUser      = "user"
)

type UserClaims struct {
	UserID uint     `json:"user_id"`
	Roles  []string `json:"roles"`
}

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

// HasAnyRole reports whether any of the wanted roles is present.
func HasAnyRole(roles []string, wanted ...string) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}

// HasOnlyRole reports whether role is the single qualifying role the actor
// holds among the given set (e.g. an expert who is not also a moderator).
func HasOnlyRole(roles []string, role string, others ...string) bool {
	if !HasAnyRole(roles, role) {
		return false
	}
	return !HasAnyRole(roles, others...)
}
