package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwork_backend/internal/models"
	"fwork_backend/test/helpers"
)

type applicationResp struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"projectId"`
	FreelanceID  string  `json:"freelanceId"`
	Status       string  `json:"status"`
	ProposedRate float64 `json:"proposedRate"`
	Duration     string  `json:"duration"`
}

func applyToProject(t *testing.T, ts *helpers.TestServer, token, projectID string) (int, string) {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/projects/"+projectID+"/applications", token, map[string]interface{}{
		"proposedRate": 50000,
		"duration":     "2 semaines",
		"coverLetter":  "Je peux livrer rapidement.",
	})
	return res.StatusCode, body
}

func TestApplyToProject(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	freelanceToken, freelance := helpers.CreateAndLoginFreelance(t, ts)
	_, company := helpers.CreateAndLoginCompany(t, ts)
	project := helpers.CreateProject(t, ts.DB, company.ID, "Site vitrine")

	status, body := applyToProject(t, ts, freelanceToken, project.ID)
	require.Equal(t, http.StatusCreated, status, body)

	var application applicationResp
	require.NoError(t, json.Unmarshal([]byte(body), &application))
	assert.Equal(t, project.ID, application.ProjectID)
	assert.Equal(t, freelance.ID, application.FreelanceID)
	assert.Equal(t, "pending", application.Status)
	assert.Equal(t, float64(50000), application.ProposedRate)
	assert.Equal(t, "2 semaines", application.Duration)
}

func TestDuplicateApplicationRejected(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	freelanceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	_, company := helpers.CreateAndLoginCompany(t, ts)
	project := helpers.CreateProject(t, ts.DB, company.ID, "Refonte backend")

	status, body := applyToProject(t, ts, freelanceToken, project.ID)
	require.Equal(t, http.StatusCreated, status, body)

	status, _ = applyToProject(t, ts, freelanceToken, project.ID)
	assert.Equal(t, http.StatusConflict, status)
}

func TestCompanyRoleCannotApply(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	companyToken, company := helpers.CreateAndLoginCompany(t, ts)
	project := helpers.CreateProject(t, ts.DB, company.ID, "App mobile")

	status, _ := applyToProject(t, ts, companyToken, project.ID)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestApplyToClosedProjectRejected(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	freelanceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	_, company := helpers.CreateAndLoginCompany(t, ts)
	project := helpers.CreateProject(t, ts.DB, company.ID, "Projet fermé")

	require.NoError(t, ts.DB.Model(project).Update("status", models.ProjectStatusCompleted).Error)

	status, _ := applyToProject(t, ts, freelanceToken, project.ID)
	assert.Equal(t, http.StatusConflict, status)
}

func TestAcceptApplicationRejectsSiblings(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	companyToken, company := helpers.CreateAndLoginCompany(t, ts)
	project := helpers.CreateProject(t, ts.DB, company.ID, "Intégration paiement")

	winnerToken, winner := helpers.CreateAndLoginFreelance(t, ts)
	loserToken, _ := helpers.CreateAndLoginFreelance(t, ts)

	status, winnerBody := applyToProject(t, ts, winnerToken, project.ID)
	require.Equal(t, http.StatusCreated, status, winnerBody)
	status, loserBody := applyToProject(t, ts, loserToken, project.ID)
	require.Equal(t, http.StatusCreated, status, loserBody)

	var winnerApp, loserApp applicationResp
	require.NoError(t, json.Unmarshal([]byte(winnerBody), &winnerApp))
	require.NoError(t, json.Unmarshal([]byte(loserBody), &loserApp))

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/applications/"+winnerApp.ID+"/respond", companyToken, map[string]interface{}{
		"decision": "accepted",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var accepted applicationResp
	require.NoError(t, json.Unmarshal([]byte(body), &accepted))
	assert.Equal(t, "accepted", accepted.Status)

	// The sibling application was auto-rejected in the same transaction.
	var sibling models.ProjectApplication
	require.NoError(t, ts.DB.First(&sibling, "id = ?", loserApp.ID).Error)
	assert.Equal(t, models.ApplicationStatusRejected, sibling.Status)
	assert.NotNil(t, sibling.RespondedAt)

	// The project moved to in_progress with the winner recorded.
	var updated models.Project
	require.NoError(t, ts.DB.First(&updated, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectStatusInProgress, updated.Status)
	require.NotNil(t, updated.AcceptedFreelanceID)
	assert.Equal(t, winner.ID, *updated.AcceptedFreelanceID)

	// A second decision on any application of the project conflicts.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/applications/"+loserApp.ID+"/respond", companyToken, map[string]interface{}{
		"decision": "accepted",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestRejectApplication(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	companyToken, company := helpers.CreateAndLoginCompany(t, ts)
	project := helpers.CreateProject(t, ts.DB, company.ID, "Audit sécurité")

	freelanceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	status, body := applyToProject(t, ts, freelanceToken, project.ID)
	require.Equal(t, http.StatusCreated, status, body)

	var application applicationResp
	require.NoError(t, json.Unmarshal([]byte(body), &application))

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/applications/"+application.ID+"/respond", companyToken, map[string]interface{}{
		"decision": "rejected",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var rejected applicationResp
	require.NoError(t, json.Unmarshal([]byte(body), &rejected))
	assert.Equal(t, "rejected", rejected.Status)

	// The project stays open.
	var updated models.Project
	require.NoError(t, ts.DB.First(&updated, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectStatusOpen, updated.Status)

	// Deciding twice conflicts.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/applications/"+application.ID+"/respond", companyToken, map[string]interface{}{
		"decision": "accepted",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestOnlyProjectOwnerCanRespond(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	_, company := helpers.CreateAndLoginCompany(t, ts)
	otherCompanyToken, _ := helpers.CreateAndLoginCompany(t, ts)
	project := helpers.CreateProject(t, ts.DB, company.ID, "Maintenance")

	freelanceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	status, body := applyToProject(t, ts, freelanceToken, project.ID)
	require.Equal(t, http.StatusCreated, status, body)

	var application applicationResp
	require.NoError(t, json.Unmarshal([]byte(body), &application))

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/applications/"+application.ID+"/respond", otherCompanyToken, map[string]interface{}{
		"decision": "accepted",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestCompanyGetsApplicationNotification(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	companyToken, company := helpers.CreateAndLoginCompany(t, ts)
	project := helpers.CreateProject(t, ts.DB, company.ID, "Nouvelle candidature")

	freelanceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	status, body := applyToProject(t, ts, freelanceToken, project.ID)
	require.Equal(t, http.StatusCreated, status, body)

	require.Eventually(t, func() bool {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/notifications", companyToken, nil)
		if res.StatusCode != http.StatusOK {
			return false
		}
		var list struct {
			Notifications []struct {
				Type string `json:"type"`
			} `json:"notifications"`
		}
		if err := json.Unmarshal([]byte(body), &list); err != nil {
			return false
		}
		for _, n := range list.Notifications {
			if n.Type == "application" {
				return true
			}
		}
		return false
	}, 2*time.Second, 50*time.Millisecond, "project owner should get an application notification")
}
