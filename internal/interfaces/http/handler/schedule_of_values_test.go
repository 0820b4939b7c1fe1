package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/nspire/billing/internal/application/billing"
	"github.com/nspire/billing/internal/interfaces/http/dto"
)

func setupSOVTestHandler() (*ScheduleOfValuesHandler, *fakeSOVRepository) {
	gin.SetMode(gin.TestMode)

	sovRepo := newFakeSOVRepository()
	service := billingapp.NewScheduleOfValuesService(sovRepo)
	return NewScheduleOfValuesHandler(service), sovRepo
}

func TestScheduleOfValuesHandler_CreateLineItem(t *testing.T) {
	handler, sovRepo := setupSOVTestHandler()

	projectID := uuid.New()

	body, _ := json.Marshal(map[string]any{
		"description":     "Site work",
		"scheduled_value": "100000",
		"retainage_pct":   "10",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/sov/items", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "projectId", Value: projectID.String()}}

	handler.CreateLineItem(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data billingapp.SOVLineItemResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.ItemNumber)
	assert.Equal(t, "Site work", resp.Data.Description)

	count, err := sovRepo.CountByProject(c.Request.Context(), projectID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestScheduleOfValuesHandler_CreateLineItem_Invalid(t *testing.T) {
	handler, _ := setupSOVTestHandler()

	projectID := uuid.New()

	// retainage over 100 percent
	body, _ := json.Marshal(map[string]any{
		"description":     "Site work",
		"scheduled_value": "100000",
		"retainage_pct":   "150",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/sov/items", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "projectId", Value: projectID.String()}}

	handler.CreateLineItem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION", resp.Error.Code)
}

func TestScheduleOfValuesHandler_GetScheduleOfValues(t *testing.T) {
	handler, sovRepo := setupSOVTestHandler()

	projectID := uuid.New()
	seedSOVItem(t, sovRepo, projectID)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/projects/"+projectID.String()+"/sov", nil)
	c.Params = gin.Params{{Key: "projectId", Value: projectID.String()}}

	handler.GetScheduleOfValues(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data billingapp.ScheduleOfValuesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "100000", resp.Data.ContractSum.String())
}
