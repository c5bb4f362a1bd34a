package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

func performRBAC(t *testing.T, claims *models.JWTClaims, paramID string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	c.Request = req
	if paramID != "" {
		c.Params = gin.Params{{Key: "id", Value: paramID}}
	}
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}

	RBAC(allowed...)(c)
	if !c.IsAborted() {
		c.Status(http.StatusOK)
	}
	return w
}

func TestRBACAllowsRole(t *testing.T) {
	w := performRBAC(t, &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}, "", "ADMIN")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACBlocksRole(t *testing.T) {
	w := performRBAC(t, &models.JWTClaims{UserID: "u1", Role: models.RoleStaff}, "", "ADMIN")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACAllowsSelf(t *testing.T) {
	w := performRBAC(t, &models.JWTClaims{UserID: "u1", Role: models.RoleStaff}, "u1", "ADMIN", "SELF")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACMissingClaims(t *testing.T) {
	w := performRBAC(t, nil, "", "ADMIN")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
