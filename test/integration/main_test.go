package integration

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	os.Setenv("DATABASE_URL", "file::memory:")
	os.Setenv("SERVER_ENV", "test")
	os.Setenv("JWT_SECRET", "integration-test-secret")

	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}
