// authcli drives the app's auth flow from a terminal: phone OTP, Google sign-in,
// status and sign-out. Configure it with IDENTITY_ADDR and AUTH_PLATFORM.
//
//	authcli -phone +4915112345678            # prompts for the code
//	authcli -phone +4915112345678 -dev-otp   # reads the code from DevService
//	authcli -google-id-token <token>
//	authcli -status
//	authcli -logout
//	authcli -device-token <token>             # keep a token printed by cmd/seed
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	authv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/auth/v1"
	devv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/dev/v1"
	"github.com/Snehil208001/Gr-nZimmer/internal/client/auth/repository"
	"github.com/Snehil208001/Gr-nZimmer/internal/client/auth/usecase"
	"github.com/Snehil208001/Gr-nZimmer/internal/client/auth/viewmodel"
	"github.com/Snehil208001/Gr-nZimmer/internal/config"
)

func main() {
	phone := flag.String("phone", "", "Sign in with this phone number (E.164)")
	code := flag.String("code", "", "OTP code; prompted for when empty")
	devOTP := flag.Bool("dev-otp", false, "Read the OTP from DevService (server must run with OTP_RETURN_TO_CLIENT)")
	googleIDToken := flag.String("google-id-token", "", "Sign in with a Google ID token")
	showStatus := flag.Bool("status", false, "Show the signed-in user")
	logout := flag.Bool("logout", false, "Sign out")
	deviceToken := flag.String("device-token", "", "Store this device trust token in the keyring")
	flag.Parse()

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	conn, err := repository.Dial(cfg.IdentityAddr, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", cfg.IdentityAddr, err)
	}
	defer conn.Close()

	var devCode string
	opts := repository.Options{DeviceID: deviceID(cfg), OTPTimeout: cfg.Timeout()}
	if *devOTP {
		opts.DevOTP = devv1.NewDevServiceClient(conn)
		opts.OnDevOTP = func(otp string) {
			fmt.Printf("dev OTP: %s\n", otp)
			devCode = otp
		}
	}
	// The terminal hosts the challenge; without one the code must come from a flag or DevService.
	host := repository.HostFunc(func() bool { return *code != "" || *devOTP || terminalAttached() })
	sessions := repository.NewKeyringStore(cfg.KeyringService)
	if *deviceToken != "" {
		if err := sessions.SaveDeviceToken(*deviceToken); err != nil {
			log.Fatalf("device token: %v", err)
		}
	}
	repo, err := repository.Select(cfg.Platform, authv1.NewAuthServiceClient(conn), sessions, host, opts)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	switch {
	case *showStatus:
		os.Exit(status(ctx, repo))
	case *logout:
		if err := repo.SignOut(ctx); err != nil {
			log.Fatalf("sign out: %v", err)
		}
		fmt.Println("signed out")
		return
	}

	vm := viewmodel.New(usecase.NewSendOTP(repo), usecase.NewVerifyOTP(repo), repo)
	states, stop := vm.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range states {
			if s.Phase == viewmodel.PhaseFailed {
				fmt.Printf("state: %s (%s)\n", s.Phase, s.Error)
				continue
			}
			fmt.Printf("state: %s\n", s.Phase)
		}
	}()

	exit := 0
	switch {
	case *googleIDToken != "":
		exit = run(vm, func() bool { return vm.SignInWithGoogle(*googleIDToken) })
	case *phone != "":
		if exit = run(vm, func() bool { return vm.SendOTP(*phone) }); exit != 0 {
			break
		}
		otp := *code
		if otp == "" {
			otp = devCode
		}
		if otp == "" && vm.State().Phase == viewmodel.PhaseOTPSent {
			otp = prompt("code: ")
		}
		exit = run(vm, func() bool { return vm.VerifyOTP(otp) })
	default:
		flag.Usage()
		exit = 2
	}

	stop()
	<-done
	if exit == 0 {
		if id, ok := repo.UserID(); ok {
			fmt.Printf("signed in as %s\n", id)
		}
	}
	vm.Close()
	os.Exit(exit)
}

// run starts one view-model action and waits for it; non-zero when it failed.
func run(vm *viewmodel.ViewModel, action func() bool) int {
	if !action() {
		return 1
	}
	vm.Wait()
	if vm.State().Phase == viewmodel.PhaseFailed {
		return 1
	}
	return 0
}

func status(ctx context.Context, repo repository.Repository) int {
	id, ok := repo.UserID()
	if !ok {
		fmt.Println("not signed in")
		return 1
	}
	p, err := repo.Profile(ctx)
	if err != nil {
		fmt.Printf("signed in as %s (profile unavailable: %v)\n", id, err)
		return 1
	}
	fmt.Printf("signed in as %s\n  phone: %s (verified: %t)\n  email: %s\n  name:  %s\n", p.UserID, p.Phone, p.PhoneVerified, p.Email, p.Name)
	return 0
}

func prompt(label string) string {
	fmt.Print(label)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

// terminalAttached reports whether stdin is a terminal that can answer the code prompt.
func terminalAttached() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// deviceID names this installation. It only identifies the device; skipping
// the OTP also needs the device token kept in the keyring.
func deviceID(cfg *config.ClientConfig) string {
	if cfg.DeviceID != "" {
		return cfg.DeviceID
	}
	host, err := os.Hostname()
	if err != nil {
		return ""
	}
	return "authcli-" + host
}
