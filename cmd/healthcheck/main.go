package main

import (
	"net/http"
	"os"
	"time"

	"github.com/ericogr/kids-games/internal/constants"
)

func main() {
	target := os.Getenv("KGM_HEALTHCHECK_URL")
	if target == "" {
		target = "http://127.0.0.1:8080" + constants.RouteHealth
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(target)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	// The health route answers 503 when the database is unreachable.
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
	os.Exit(0)
}
