// Command generate-token runs the one-shot OAuth2 flow that produces the
// refresh token the server needs for Google Drive access. It prints the
// authorization URL, waits for the pasted authorization code, exchanges it,
// and writes the resulting tokens to tokens.json.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
)

func main() {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		fmt.Fprintln(os.Stderr, "Error: GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
		os.Exit(1)
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "http://localhost:3000/oauth2callback",
		Scopes:       []string{driveapi.DriveScope},
		Endpoint:     google.Endpoint,
	}

	authURL := conf.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	fmt.Println("Open this URL in your browser:")
	fmt.Println(authURL)
	fmt.Println()
	fmt.Print("Paste the authorization code here: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading code: %v\n", err)
		os.Exit(1)
	}
	code = strings.TrimSpace(code)

	token, err := conf.Exchange(context.Background(), code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exchanging code: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nTokens obtained. Add this line to your environment:")
	fmt.Printf("GOOGLE_REFRESH_TOKEN=%s\n", token.RefreshToken)

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding tokens: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("tokens.json", data, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing tokens.json: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Tokens saved to tokens.json")
}
