// cmd/customer-by-name/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/unclebandit/customer-service/internal/model"
)

const defaultURL = "http://localhost:8080"

type options struct {
	name    string
	url     string
	timeout time.Duration
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "customer-by-name",
		Short:         "Look up customers whose name contains a substring",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: opts.timeout}
			customers, err := queryByName(cmd.Context(), client, opts.url, opts.name)
			if err != nil {
				return err
			}
			for _, c := range customers {
				fmt.Fprintln(cmd.OutOrStdout(), c.String())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.name, "name", "n", "", "Customer name")
	f.StringVar(&opts.url, "url", defaultURL, "base URL of the customer service")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// queryByName calls GET /customer_query on the service at baseURL.
func queryByName(ctx context.Context, client *http.Client, baseURL, name string) ([]model.Customer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", baseURL, err)
	}
	u = u.JoinPath("customer_query")
	u.RawQuery = url.Values{"name": {name}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("customer query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("customer query failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	customers := []model.Customer{}
	if err := json.NewDecoder(resp.Body).Decode(&customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	return customers, nil
}

func main() {
	if err := newRootCommand(&options{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
