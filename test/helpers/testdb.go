package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fwork_backend/internal/models"
)

// CreateUser inserts a user, hashing the password when a raw one was
// supplied.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()

	if user.PasswordHash != "" && user.PasswordHash[0] != '$' {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		require.NoError(t, err, "failed to hash test password")
		user.PasswordHash = string(hashed)
	}

	require.NoError(t, db.Create(user).Error, "failed to create test user %s", user.Email)
}

// CreateAndLoginUser creates a user and logs in through the API,
// returning the bearer token.
func CreateAndLoginUser(t *testing.T, ts *TestServer, name, email, password string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: password,
		Role:         role,
	}
	CreateUser(t, ts.DB, user)

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed, got: %s", bodyStr)

	var loginResponse struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &loginResponse))
	require.NotEmpty(t, loginResponse.Token)

	return loginResponse.Token, user
}

// CreateAndLoginFreelance creates a freelance user with a unique email.
func CreateAndLoginFreelance(t *testing.T, ts *TestServer) (string, *models.User) {
	t.Helper()
	email := fmt.Sprintf("freelance_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, "Test Freelance", email, "password123", models.UserRoleFreelance)
}

// CreateAndLoginCompany creates a company user with a unique email.
func CreateAndLoginCompany(t *testing.T, ts *TestServer) (string, *models.User) {
	t.Helper()
	email := fmt.Sprintf("company_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, "Test Company", email, "password123", models.UserRoleCompany)
}

// CreateProject inserts an open project owned by the given company.
func CreateProject(t *testing.T, db *gorm.DB, companyID, title string) *models.Project {
	t.Helper()

	project := &models.Project{
		CompanyID:   companyID,
		Title:       title,
		Description: "Test project description",
		Budget:      50000,
		Status:      models.ProjectStatusOpen,
	}
	require.NoError(t, db.Create(project).Error, "failed to create test project")
	return project
}
