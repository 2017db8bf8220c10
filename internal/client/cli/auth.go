package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/fincontext/internal/client/api"
	"github.com/dmitrijs2005/fincontext/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username, email and password and attempts
// to create a new account.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, userName, email, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts the user for credentials and tries to authenticate. On
// success the API client stores the bearer token for later requests.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, userName, password); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			log.Printf("Server unavailable: %s", err.Error())
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	a.userName = userName
	log.Printf("Login successful")
	return nil
}

// Logout forgets the stored token.
func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.userName = ""
	fmt.Println("Logged out.")
	return nil
}
