package main

import (
	"flag"
	"fmt"
	"os"

	"filedrop/internal/client"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "filedrop server URL")
	nom := flag.String("nom", "", "last name")
	prenom := flag.String("prenom", "", "first name")
	email := flag.String("email", "", "email address for the confirmation")
	message := flag.String("message", "", "optional message for the team")
	issue := flag.String("issue", "", "optional issue label")
	flag.Parse()

	paths, err := client.ParseFiles(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sub := &client.Submission{
		Nom:     *nom,
		Prenom:  *prenom,
		Email:   *email,
		Message: *message,
		Issue:   *issue,
		Paths:   paths,
	}

	result, err := client.Submit(*server, sub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ %d file(s) sent\n", len(result.Files))
	for _, f := range result.Files {
		fmt.Printf("  %s: %s\n", f.Name, f.WebViewLink)
	}
	if result.FolderID != "" {
		fmt.Printf("Folder: %s\n", result.FolderID)
	} else {
		fmt.Printf("Issue folder: %s\nContributor folder: %s\n",
			result.IssueFolderID, result.ContributorFolderID)
	}
}
