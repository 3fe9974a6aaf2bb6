package handlers

import (
	"context"

	"battery_advisor/internal/models"
	"battery_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

// Hand-rolled service mocks for handler tests. Each mock records its last
// call and returns canned results.

type mockAuth struct {
	signUpID    int
	signUpErr   error
	token       string
	tokenErr    error
	parseUserID int
	parseErr    error

	lastUsername string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastUsername = username
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastUsername = username
	return m.token, m.tokenErr
}

func (m *mockAuth) ParseToken(accessToken string) (int, error) {
	return m.parseUserID, m.parseErr
}

type mockAdvisor struct {
	resp      service.DecisionResponse
	err       error
	available bool

	calls      int
	lastParams service.DecideParams
}

func (m *mockAdvisor) Decide(ctx context.Context, p service.DecideParams) (service.DecisionResponse, error) {
	m.calls++
	m.lastParams = p
	return m.resp, m.err
}

func (m *mockAdvisor) ModelAvailable() bool { return m.available }

type mockDecisionLog struct {
	records []models.DecisionRecord
	latest  *models.DecisionRecord
	err     error

	lastFilter service.LogFilter
}

func (m *mockDecisionLog) List(ctx context.Context, f service.LogFilter) ([]models.DecisionRecord, error) {
	m.lastFilter = f
	return m.records, m.err
}

func (m *mockDecisionLog) Latest(ctx context.Context) (*models.DecisionRecord, error) {
	return m.latest, m.err
}

type mockDevices struct {
	device  models.Device
	devices []models.Device
	err     error

	lastUserID int
	lastParams service.DeviceParams
}

func (m *mockDevices) Register(ctx context.Context, userID int, p service.DeviceParams) (models.Device, error) {
	m.lastUserID = userID
	m.lastParams = p
	if m.err != nil {
		return models.Device{}, m.err
	}
	return m.device, nil
}

func (m *mockDevices) List(ctx context.Context, userID int) ([]models.Device, error) {
	m.lastUserID = userID
	return m.devices, m.err
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func authHeader(token string) string { return "Bearer " + token }
