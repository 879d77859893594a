package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/kaman1990/field-service-sub001/internal/client/client"
	"github.com/kaman1990/field-service-sub001/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a login and password and attempts to create
// a new account via the AuthService.
//
// A successful registration also signs the user in, so on success the app
// switches to online mode. The password byte slice is securely wiped before
// returning. Any I/O or service error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success!")
	a.userName = userName
	a.setMode(ModeOnline)
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// The method first attempts an online login. If the server is unavailable
// (errors.Is(err, client.ErrUnavailable)), it falls back to offline login
// against the locally cached verifier. On success it records the user name
// and updates connectivity Mode:
//   - ModeOnline if online login succeeds,
//   - ModeOffline if offline login succeeds,
//   - ModeDisabled if the server is unreachable and offline login fails too.
//
// A rejection by a reachable server leaves Mode untouched. The password is
// securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.authService.OnlineLogin(ctx, userName, password)
	if err == nil {
		log.Printf("Login successful")
		a.userName = userName
		a.setMode(ModeOnline)
		return nil
	}

	if !errors.Is(err, client.ErrUnavailable) {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Server unavailable, trying offline login...")
	if err := a.authService.OfflineLogin(ctx, userName, password); err != nil {
		log.Printf("Offline login unsuccessful: %s", err.Error())
		a.setMode(ModeDisabled)
		return err
	}

	log.Printf("Offline login successful")
	a.userName = userName
	a.setMode(ModeOffline)
	return nil
}

// Logout drops the session tokens, clears locally cached offline auth data
// and forgets the in-memory user name. It returns any error from the
// AuthService cleanup.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	return nil
}
