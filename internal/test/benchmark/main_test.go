package benchmark

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
)

// TestConfig configures the benchmark target. Override with test_config.json.
type TestConfig struct {
	BaseURL     string `json:"base_url"`
	AdminEmail  string `json:"admin_email"`
	AdminPass   string `json:"admin_pass"`
	Concurrency int    `json:"concurrency"`
	Requests    int    `json:"requests"`
}

type loginResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Token string `json:"token"`
	} `json:"data"`
}

var (
	testConfig TestConfig
	authToken  string
)

// TestMain requires a running server; set BENCHMARK=1 to enable the suite.
func TestMain(m *testing.M) {
	if os.Getenv("BENCHMARK") == "" {
		os.Exit(0)
	}

	if err := loadConfig(); err != nil {
		fmt.Printf("failed to load benchmark config: %v\n", err)
		os.Exit(1)
	}

	if err := login(); err != nil {
		fmt.Printf("failed to authenticate: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func loadConfig() error {
	testConfig = TestConfig{
		BaseURL:     "http://localhost:8080/api",
		AdminEmail:  "admin@epicheck.local",
		AdminPass:   "Admin@123",
		Concurrency: 10,
		Requests:    100,
	}

	data, err := os.ReadFile("test_config.json")
	if err == nil {
		if err := json.Unmarshal(data, &testConfig); err != nil {
			return fmt.Errorf("parse test_config.json: %v", err)
		}
	}
	return nil
}

func login() error {
	b := NewAPIBenchmark(testConfig.BaseURL, 1, 1, "")

	status, body, err := b.Do(http.MethodPost, "/auth/login", map[string]string{
		"email":    testConfig.AdminEmail,
		"password": testConfig.AdminPass,
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("login returned status %d", status)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("parse login response: %v", err)
	}
	if resp.Data.Token == "" {
		return fmt.Errorf("login response carried no token: %s", resp.Message)
	}

	authToken = resp.Data.Token
	return nil
}

func runGET(t *testing.T, path string) {
	t.Helper()

	b := NewAPIBenchmark(testConfig.BaseURL, testConfig.Concurrency, testConfig.Requests, authToken)
	result := b.RunGET(path)
	result.PrintResult()

	if result.FailureCount > 0 {
		t.Errorf("%s: success rate %.2f%%", path,
			float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
}

func TestUserList(t *testing.T) {
	runGET(t, "/users")
}

func TestEpiTypeList(t *testing.T) {
	runGET(t, "/epi-types")
}

func TestEpiTypeCategories(t *testing.T) {
	runGET(t, "/epi-types/categories")
}

func TestChecklistList(t *testing.T) {
	runGET(t, "/checklists")
}

func TestExecutionList(t *testing.T) {
	runGET(t, "/executions")
}

func TestAnomalyList(t *testing.T) {
	runGET(t, "/anomalies")
}

func TestDashboard(t *testing.T) {
	runGET(t, "/reports/dashboard")
}
