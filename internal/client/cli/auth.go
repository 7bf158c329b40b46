package cli

import (
	"context"
	"fmt"

	"github.com/marinesurvey/inspector/internal/shared"
)

func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) signup(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	res, err := a.client.Signup(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account created: %s (%s)\n", res.Email, res.UserID)
	return nil
}

// login prints the token on its own line so it can be captured by scripts.
func (a *App) login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	if !res.IsProfileComplete {
		fmt.Fprintln(a.out, "Profile incomplete, run: inspector -t <token> profile set fullName=...")
	}
	fmt.Fprintln(a.out, res.Token)
	return nil
}
