// Command healthcheck probes the local action server for container health
// checks. It exits 0 when /livez answers 200.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/stockpilot/stockbot-go/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = "5055"
	}

	if err := check(fmt.Sprintf("http://localhost:%s/livez", port)); err != nil {
		os.Exit(1)
	}
}

// check requests url and fails unless it answers 200.
func check(url string) error {
	client := &http.Client{Timeout: config.ReadinessCheckTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
