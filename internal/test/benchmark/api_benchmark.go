package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// APIBenchmark drives concurrent requests against a running server
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	AuthToken   string
	Client      *http.Client
}

// BenchmarkResult aggregates the outcome of one benchmark run
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	MinTime        time.Duration `json:"min_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

type requestResult struct {
	duration   time.Duration
	statusCode int
	body       []byte
	err        error
}

// NewAPIBenchmark creates a benchmark runner
func NewAPIBenchmark(baseURL string, concurrency, requests int, authToken string) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		AuthToken:   authToken,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RunGET benchmarks a GET endpoint
func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.run(http.MethodGet, b.BaseURL+path, nil)
}

// RunPOST benchmarks a POST endpoint with a JSON payload
func (b *APIBenchmark) RunPOST(path string, payload interface{}) *BenchmarkResult {
	url := b.BaseURL + path
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &BenchmarkResult{
			URL:    url,
			Method: http.MethodPost,
			Errors: []string{fmt.Sprintf("encode payload: %v", err)},
		}
	}
	return b.run(http.MethodPost, url, jsonData)
}

// Do issues a single request and returns the status code and body. Used to
// log in before benchmarking protected endpoints.
func (b *APIBenchmark) Do(method, path string, payload interface{}) (int, []byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
	}
	result := b.doRequest(method, b.BaseURL+path, body, true)
	return result.statusCode, result.body, result.err
}

func (b *APIBenchmark) doRequest(method, url string, payload []byte, readBody bool) requestResult {
	start := time.Now()
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return requestResult{err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	if b.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.AuthToken)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return requestResult{err: err}
	}
	defer resp.Body.Close()

	result := requestResult{
		duration:   time.Since(start),
		statusCode: resp.StatusCode,
	}
	if readBody {
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			result.err = err
			return result
		}
		result.body = buf.Bytes()
	}
	return result
}

func (b *APIBenchmark) run(method, url string, payload []byte) *BenchmarkResult {
	results := make(chan requestResult, b.Requests)
	var wg sync.WaitGroup
	limiter := make(chan struct{}, b.Concurrency)

	startTime := time.Now()

	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			results <- b.doRequest(method, url, payload, false)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var minTime time.Duration = 1<<63 - 1
	var maxTime time.Duration
	var totalTime time.Duration
	successCount := 0
	failureCount := 0
	statusCodes := make(map[int]int)
	var errs []string

	for result := range results {
		if result.err != nil {
			failureCount++
			errs = append(errs, result.err.Error())
			continue
		}

		totalTime += result.duration
		if result.duration < minTime {
			minTime = result.duration
		}
		if result.duration > maxTime {
			maxTime = result.duration
		}

		statusCodes[result.statusCode]++
		if result.statusCode >= 200 && result.statusCode < 300 {
			successCount++
		} else {
			failureCount++
		}
	}

	totalElapsed := time.Since(startTime)
	averageTime := time.Duration(0)
	if successCount+failureCount > 0 {
		averageTime = totalTime / time.Duration(successCount+failureCount)
	}

	return &BenchmarkResult{
		URL:            url,
		Method:         method,
		Concurrency:    b.Concurrency,
		TotalRequests:  b.Requests,
		SuccessCount:   successCount,
		FailureCount:   failureCount,
		TotalTime:      totalElapsed,
		AverageTime:    averageTime,
		MinTime:        minTime,
		MaxTime:        maxTime,
		RequestsPerSec: float64(b.Requests) / totalElapsed.Seconds(),
		StatusCodes:    statusCodes,
		Errors:         errs,
	}
}

// PrintResult writes a human-readable summary to stdout
func (r *BenchmarkResult) PrintResult() {
	fmt.Printf("\n%s %s\n", r.Method, r.URL)
	fmt.Printf("  concurrency: %d, requests: %d\n", r.Concurrency, r.TotalRequests)
	fmt.Printf("  success: %d, failure: %d\n", r.SuccessCount, r.FailureCount)
	fmt.Printf("  total: %v, avg: %v, min: %v, max: %v\n", r.TotalTime, r.AverageTime, r.MinTime, r.MaxTime)
	fmt.Printf("  throughput: %.2f req/s\n", r.RequestsPerSec)
	for code, count := range r.StatusCodes {
		fmt.Printf("  status %d: %d\n", code, count)
	}
}
