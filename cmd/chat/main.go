package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"brewhaven-backend/internal/chatclient"
	"brewhaven-backend/internal/models"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "BrewHaven server base URL")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	apiKey := flag.String("api-key", "", "public API key sent to the relay")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: chat -email you@example.com -password ... [-server URL]")
		os.Exit(2)
	}

	tokens, err := login(*server, *email, *password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	relay := chatclient.NewHTTPRelay(*server+"/functions/v1/coffee-chat", *apiKey)
	store := chatclient.NewHTTPHistoryStore(*server, tokens.AccessToken)
	session := chatclient.NewSession(relay, store)

	ctx := context.Background()
	if err := session.LoadHistory(ctx); err != nil {
		log.Fatalf("%v", err)
	}
	for _, m := range session.Messages() {
		printMessage(m)
	}

	fmt.Println("☕ Ask Venessa about coffee (Ctrl-D to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reply, err := session.Submit(ctx, line)
		if err != nil {
			fmt.Println("!", chatclient.Classify(err))
			continue
		}
		printMessage(reply)
	}
}

func printMessage(m chatclient.Message) {
	prefix := "you"
	if m.Role == chatclient.RoleAssistant {
		prefix = "venessa"
	}
	fmt.Printf("%s> %s\n", prefix, m.Content)
}

func login(server, email, password string) (*models.AuthTokens, error) {
	body, _ := json.Marshal(models.LoginRequest{Email: email, Password: password})

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Post(server+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return nil, fmt.Errorf("%s", errResp.Error.Message)
		}
		return nil, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var tokens models.AuthTokens
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}
