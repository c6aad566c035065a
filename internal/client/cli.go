package client

import (
	"fmt"
	"os"
	"path/filepath"
)

type ValidationError struct {
	Arg   string
	Cause string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Cause)
}

// Submission is one form submission assembled on the client side.
type Submission struct {
	Nom     string
	Prenom  string
	Email   string
	Message string
	Issue   string
	Paths   []string
}

// ParseFiles validates the file arguments. Every path must exist and be a
// regular file; the service accepts individual files only.
func ParseFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, &ValidationError{Arg: "<files>", Cause: "no files provided"}
	}

	var out []string

	for _, raw := range args {
		p := filepath.Clean(raw)
		info, err := os.Stat(p)
		if err != nil {
			return nil, &ValidationError{Arg: raw, Cause: "not found or not accessible"}
		}
		if info.IsDir() {
			return nil, &ValidationError{Arg: raw, Cause: "is a directory, only files can be sent"}
		}

		out = append(out, p)
	}

	return out, nil
}

// Validate checks the identity fields the server will reject without.
func (s *Submission) Validate() error {
	if s.Nom == "" {
		return &ValidationError{Arg: "-nom", Cause: "required"}
	}
	if s.Prenom == "" {
		return &ValidationError{Arg: "-prenom", Cause: "required"}
	}
	if s.Email == "" {
		return &ValidationError{Arg: "-email", Cause: "required"}
	}
	if len(s.Paths) == 0 {
		return &ValidationError{Arg: "<files>", Cause: "no files provided"}
	}
	return nil
}
