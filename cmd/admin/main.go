// Package main provides an operator CLI for the crowdsale server's admin
// endpoints: price updates, allow-list management, finalization, faucet
// funding and status inspection.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("server", envOr("SERVER_URL", "http://localhost:8080"), "Crowdsale server base URL")
	caller := flag.String("caller", os.Getenv("SALE_ADMIN"), "Administrator account")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP request timeout")

	setPrice := flag.Uint64("set-price", 0, "Set the unit price")
	allow := flag.String("allow", "", "Add an account to the allow-list")
	finalize := flag.Bool("finalize", false, "Finalize the sale")
	fund := flag.String("fund", "", "Fund an account from the payment treasury")
	amount := flag.Uint64("amount", 0, "Amount for --fund")
	status := flag.Bool("status", false, "Print sale status")

	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	actions := 0
	for _, set := range []bool{*setPrice > 0, *allow != "", *finalize, *fund != "", *status} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --set-price, --allow, --finalize, --fund, --status is required")
		flag.Usage()
		os.Exit(1)
	}

	var err error
	switch {
	case *status:
		err = get(client, *serverURL+"/status")
	case *setPrice > 0:
		err = post(client, *serverURL+"/admin/price", map[string]any{
			"caller": *caller, "price": *setPrice,
		})
	case *allow != "":
		err = post(client, *serverURL+"/admin/allowlist", map[string]any{
			"caller": *caller, "account": *allow,
		})
	case *finalize:
		err = post(client, *serverURL+"/admin/finalize", map[string]any{
			"caller": *caller,
		})
	case *fund != "":
		if *amount == 0 {
			fmt.Fprintln(os.Stderr, "Error: --amount is required with --fund")
			os.Exit(1)
		}
		err = post(client, *serverURL+"/faucet", map[string]any{
			"account": *fund, "amount": *amount,
		})
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// post sends a JSON body and prints the response.
func post(client *http.Client, url string, body map[string]any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

// get fetches a URL and prints the response.
func get(client *http.Client, url string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

// printResponse pretty-prints a JSON response body to stdout.
func printResponse(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		// Not JSON; print as-is
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

// envOr returns the env var value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
