package purchase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	logx "github.com/frizbee-ai/server/pkg/logger"
)

// Config holds the purchase robot endpoint and the account it checks out
// with, sourced from environment variables.
type Config struct {
	BaseURL  string `envconfig:"PURCHASE_ROBOT_URL"`
	Email    string `envconfig:"PURCHASE_ROBOT_EMAIL"`
	Password string `envconfig:"PURCHASE_ROBOT_PASSWORD"`
	Address  string `envconfig:"PURCHASE_ROBOT_ADDRESS"`
	Timeout  int    `envconfig:"PURCHASE_ROBOT_TIMEOUT" default:"300"`
}

// Enabled reports whether a robot endpoint is configured.
func (c Config) Enabled() bool {
	return c.BaseURL != ""
}

// Client triggers the external purchase robot that buys the cart's product
// links on the supermarket site. The browser automation itself lives behind
// the endpoint; this client only submits the run.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

type runRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Address  string   `json:"address"`
	URLs     []string `json:"urls"`
}

// Run submits the purchase run and waits for the robot to acknowledge it.
func (c *Client) Run(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("no product links to purchase")
	}

	body, err := json.Marshal(runRequest{
		Email:    c.cfg.Email,
		Password: c.cfg.Password,
		Address:  c.cfg.Address,
		URLs:     urls,
	})
	if err != nil {
		return fmt.Errorf("marshal run request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/run_bot", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit purchase run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("purchase robot returned status %d", resp.StatusCode)
	}
	return nil
}

// RunAsync fires the purchase run on its own goroutine. The conversation
// never waits on the robot; failures are logged, not surfaced to the user.
func (c *Client) RunAsync(urls []string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.cfg.Timeout)*time.Second)
		defer cancel()

		if err := c.Run(ctx, urls); err != nil {
			logx.Error().Err(err).Int("urls", len(urls)).Msg("Purchase robot run failed")
			return
		}
		logx.Info().Int("urls", len(urls)).Msg("Purchase robot run submitted")
	}()
}
