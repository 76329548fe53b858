package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/signature"
)

var (
	baseURL       = flag.String("url", "http://localhost:5000", "Ticketing service base URL")
	keySecret     = flag.String("key-secret", os.Getenv("RAZORPAY_KEY_SECRET"), "Secret signing client confirmations")
	webhookSecret = flag.String("webhook-secret", os.Getenv("RAZORPAY_WEBHOOK_SECRET"), "Secret signing gateway notifications")
	adminUser     = flag.String("admin-user", "admin", "Admin username")
	adminPass     = flag.String("admin-password", "", "Admin password (required to count tickets)")
	eventTitle    = flag.String("event", "Conf2024", "Event title")
	clients       = flag.Int("clients", 10, "Concurrent client confirmations")
	gateways      = flag.Int("gateways", 10, "Concurrent gateway notifications")
)

type result struct {
	source   string
	status   int
	ticketID string
	err      error
}

func main() {
	flag.Parse()

	if *keySecret == "" || *webhookSecret == "" {
		fmt.Println("Error: --key-secret and --webhook-secret are required")
		flag.Usage()
		os.Exit(1)
	}

	orderID := "order_sim_" + uuid.NewString()[:8]
	paymentID := "pay_sim_" + uuid.NewString()[:8]
	email := fmt.Sprintf("sim+%s@example.com", paymentID)

	cli := resty.New().SetBaseURL(*baseURL).SetTimeout(10 * time.Second)

	clientBody := map[string]any{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature.Sign(signature.ClientPayload(orderID, paymentID), *keySecret),
		"eventTitle":          *eventTitle,
		"name":                "Sim User",
		"email":               email,
		"formData":            map[string]any{"source": "simulator"},
	}

	webhookBody, err := json.Marshal(map[string]any{
		"event": "payment.captured",
		"payload": map[string]any{"payment": map[string]any{"entity": map[string]any{
			"id":       paymentID,
			"order_id": orderID,
			"status":   "captured",
			"notes":    map[string]string{"name": "Sim User", "email": email, "event_title": *eventTitle},
		}}},
	})
	if err != nil {
		fmt.Printf("Failed to build notification: %v\n", err)
		os.Exit(1)
	}
	webhookSig := signature.Sign(webhookBody, *webhookSecret)

	fmt.Printf("Simulating payment %s: %d client confirmations, %d gateway notifications\n", paymentID, *clients, *gateways)

	results := make(chan result, *clients+*gateways)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for range *clients {
		wg.Go(func() {
			<-start
			var out struct {
				TicketID string `json:"ticketId"`
			}
			resp, err := cli.R().SetBody(clientBody).SetResult(&out).Post("/api/verify-payment")
			results <- toResult("client", resp, out.TicketID, err)
		})
	}
	for range *gateways {
		wg.Go(func() {
			<-start
			var out struct {
				TicketID string `json:"ticketId"`
			}
			resp, err := cli.R().
				SetHeader("Content-Type", "application/json").
				SetHeader("X-Razorpay-Signature", webhookSig).
				SetBody(webhookBody).
				SetResult(&out).
				Post("/api/webhooks/razorpay")
			results <- toResult("gateway", resp, out.TicketID, err)
		})
	}

	began := time.Now()
	close(start)
	wg.Wait()
	close(results)

	seen := map[string]int{}
	failures := 0
	for r := range results {
		if r.err != nil || r.status != 200 {
			failures++
			fmt.Printf("  %s: status=%d err=%v\n", r.source, r.status, r.err)
			continue
		}
		seen[r.ticketID]++
	}

	fmt.Printf("Completed in %s, %d failures\n", time.Since(began).Round(time.Millisecond), failures)
	for id, n := range seen {
		fmt.Printf("  ticket %s returned %d times\n", id, n)
	}

	if *adminPass != "" {
		stored, err := countStored(cli, paymentID)
		if err != nil {
			fmt.Printf("Failed to list registrations: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Stored tickets for %s: %d\n", paymentID, stored)
		if stored != 1 {
			os.Exit(1)
		}
	}

	if len(seen) != 1 || failures > 0 {
		fmt.Println("❌ Expected exactly one ticket id and no failures")
		os.Exit(1)
	}
	fmt.Println("✅ Exactly one ticket issued")
}

func toResult(source string, resp *resty.Response, ticketID string, err error) result {
	r := result{source: source, ticketID: ticketID, err: err}
	if resp != nil {
		r.status = resp.StatusCode()
	}
	return r
}

func countStored(cli *resty.Client, paymentID string) (int, error) {
	var login struct {
		Token string `json:"token"`
	}
	resp, err := cli.R().
		SetBody(map[string]string{"username": *adminUser, "password": *adminPass}).
		SetResult(&login).
		Post("/api/login")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("login: %s", resp.Status())
	}

	var list struct {
		Data []struct {
			PaymentID string `json:"paymentId"`
		} `json:"data"`
	}
	resp, err = cli.R().SetAuthToken(login.Token).SetResult(&list).Get("/api/registrations")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("list: %s", resp.Status())
	}

	n := 0
	for _, t := range list.Data {
		if t.PaymentID == paymentID {
			n++
		}
	}
	return n, nil
}
