package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/server/middleware"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	users        map[string]uuid.UUID
	admin        string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:    tc,
		users: make(map[string]uuid.UUID),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the portal server is running$`, s.thePortalServerIsRunning)

	// Account steps
	sc.Step(`^an admin "([^"]*)" exists$`, s.anAdminExists)
	sc.Step(`^"([^"]*)" signs up$`, s.signsUp)
	sc.Step(`^the account "([^"]*)" should be "([^"]*)"$`, s.theAccountShouldBe)

	// Approval steps
	sc.Step(`^the admin approves "([^"]*)"$`, s.theAdminApproves)
	sc.Step(`^the admin rejects "([^"]*)" with reason "([^"]*)"$`, s.theAdminRejects)
	sc.Step(`^"([^"]*)" approves "([^"]*)"$`, s.userApproves)

	// Request and response steps
	sc.Step(`^"([^"]*)" requests "([^"]*)"$`, s.userRequests)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
}

func (s *StepsContext) thePortalServerIsRunning() error {
	return nil
}

// token signs a session token for a signed-up user
func (s *StepsContext) token(email string) (string, error) {
	id, ok := s.users[email]
	if !ok {
		return "", fmt.Errorf("unknown user %q", email)
	}
	return middleware.SignSessionToken(s.tc.JWTSecret, id, email, time.Hour)
}

func (s *StepsContext) do(method, path, email string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		token, err := s.token(email)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) userRequests(email, path string) error {
	return s.do(http.MethodGet, path, email, nil)
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected response to contain %q, got %s", text, string(s.responseBody))
	}
	return nil
}
