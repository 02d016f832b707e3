// Package viewmodel holds the auth screen state and sequences the sign-in actions.
package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/Snehil208001/Gr-nZimmer/internal/client/auth/repository"
)

// Phase is the single active condition of the auth flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseOTPSent
	PhaseVerifying
	PhaseVerified
	PhaseFederatedSigningIn
	PhaseFederatedSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseOTPSent:
		return "otp_sent"
	case PhaseVerifying:
		return "verifying"
	case PhaseVerified:
		return "verified"
	case PhaseFederatedSigningIn:
		return "federated_signing_in"
	case PhaseFederatedSuccess:
		return "federated_success"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Fallback messages for failures that carry no message.
const (
	MsgSendOTPFailed      = "Failed to send OTP"
	MsgInvalidOTP         = "Invalid OTP"
	MsgGoogleSignInFailed = "Google Sign-In Failed"
)

// State is what the screens render. Error is set only in PhaseFailed.
type State struct {
	Phase Phase
	Error string
}

// Loading reports whether an action is in flight.
func (s State) Loading() bool {
	return s.Phase == PhaseSending || s.Phase == PhaseVerifying || s.Phase == PhaseFederatedSigningIn
}

// Flags is the flag view of a State for screens that bind to booleans.
type Flags struct {
	IsLoading                bool
	IsOtpSent                bool
	IsVerified               bool
	IsFederatedSignInSuccess bool
	Error                    string // empty means none
}

func (s State) Flags() Flags {
	return Flags{
		IsLoading:                s.Loading(),
		IsOtpSent:                s.Phase == PhaseOTPSent,
		IsVerified:               s.Phase == PhaseVerified,
		IsFederatedSignInSuccess: s.Phase == PhaseFederatedSuccess,
		Error:                    s.Error,
	}
}

// OTPSender starts a phone challenge (usecase.SendOTP).
type OTPSender interface {
	Execute(ctx context.Context, phone string) (repository.PendingVerification, error)
}

// OTPVerifier confirms a phone challenge (usecase.VerifyOTP).
type OTPVerifier interface {
	Execute(ctx context.Context, pending repository.PendingVerification, code string) error
}

// FederatedSigner exchanges a Google ID token for a session (repository.Repository).
type FederatedSigner interface {
	SignInWithGoogle(ctx context.Context, idToken string) error
}

// ViewModel runs one action at a time. Actions return immediately; the work
// runs on a goroutine owned by the view-model and ends in a success phase or
// PhaseFailed. Close cancels in-flight work.
type ViewModel struct {
	sendOTP   OTPSender
	verifyOTP OTPVerifier
	federated FederatedSigner

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   State
	pending repository.PendingVerification
	// gen increments on ResetState; results of actions started before it are dropped.
	gen     uint64
	subs    map[int]chan State
	nextSub int
	closed  bool
}

func New(sendOTP OTPSender, verifyOTP OTPVerifier, federated FederatedSigner) *ViewModel {
	ctx, cancel := context.WithCancel(context.Background())
	return &ViewModel{
		sendOTP:   sendOTP,
		verifyOTP: verifyOTP,
		federated: federated,
		ctx:       ctx,
		cancel:    cancel,
		subs:      make(map[int]chan State),
	}
}

// State returns the current state.
func (vm *ViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// SendOTP starts a challenge for phone. It reports false when another action is
// still loading or the view-model is closed; the call is then ignored.
func (vm *ViewModel) SendOTP(phone string) bool {
	return vm.start(PhaseSending, PhaseOTPSent, MsgSendOTPFailed, func(ctx context.Context, _ repository.PendingVerification) (func(), error) {
		pending, err := vm.sendOTP.Execute(ctx, phone)
		return func() { vm.pending = pending }, err
	})
}

// VerifyOTP confirms the challenge from the last successful SendOTP with code.
// The challenge is kept after a wrong code so the user can try again.
func (vm *ViewModel) VerifyOTP(code string) bool {
	return vm.start(PhaseVerifying, PhaseVerified, MsgInvalidOTP, func(ctx context.Context, pending repository.PendingVerification) (func(), error) {
		err := vm.verifyOTP.Execute(ctx, pending, code)
		return func() { vm.pending = repository.PendingVerification{} }, err
	})
}

// SignInWithGoogle exchanges idToken for a session.
func (vm *ViewModel) SignInWithGoogle(idToken string) bool {
	return vm.start(PhaseFederatedSigningIn, PhaseFederatedSuccess, MsgGoogleSignInFailed, func(ctx context.Context, _ repository.PendingVerification) (func(), error) {
		return nil, vm.federated.SignInWithGoogle(ctx, idToken)
	})
}

// ResetState restores the initial state and drops a result still in flight.
// The pending challenge is kept, so a code that already arrived can still be
// verified; it is replaced by the next successful SendOTP and cleared by a
// successful VerifyOTP.
func (vm *ViewModel) ResetState() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.gen++
	vm.setLocked(State{})
}

type action func(ctx context.Context, pending repository.PendingVerification) (commit func(), err error)

// start enters loading and runs work on a goroutine with the pending challenge
// as of the start. work returns an optional commit applied under the lock on success.
func (vm *ViewModel) start(loading, done Phase, fallback string, work action) bool {
	vm.mu.Lock()
	if vm.closed || vm.state.Loading() {
		vm.mu.Unlock()
		return false
	}
	gen, pending := vm.gen, vm.pending
	vm.setLocked(State{Phase: loading})
	vm.wg.Add(1)
	vm.mu.Unlock()

	go func() {
		defer vm.wg.Done()
		commit, err := vm.run(work, pending)

		vm.mu.Lock()
		defer vm.mu.Unlock()
		if vm.closed || gen != vm.gen {
			return
		}
		if err != nil {
			msg := err.Error()
			if msg == "" {
				msg = fallback
			}
			vm.setLocked(State{Phase: PhaseFailed, Error: msg})
			return
		}
		if commit != nil {
			commit()
		}
		vm.setLocked(State{Phase: done})
	}()
	return true
}

// run calls work, turning a panic into an error with an empty message so the fallback is shown.
func (vm *ViewModel) run(work action, pending repository.PendingVerification) (commit func(), err error) {
	defer func() {
		if r := recover(); r != nil {
			commit, err = nil, emptyError{}
		}
	}()
	return work(vm.ctx, pending)
}

type emptyError struct{}

func (emptyError) Error() string { return "" }

// setLocked stores s and publishes it to subscribers. Callers hold vm.mu.
func (vm *ViewModel) setLocked(s State) {
	vm.state = s
	for _, ch := range vm.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// Subscribe returns a channel that always holds the latest state; intermediate
// states may be skipped by a slow reader. The current state is delivered first.
// cancel stops delivery and closes the channel.
func (vm *ViewModel) Subscribe() (<-chan State, func()) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	ch := make(chan State, 1)
	if vm.closed {
		close(ch)
		return ch, func() {}
	}
	id := vm.nextSub
	vm.nextSub++
	vm.subs[id] = ch
	ch <- vm.state
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			vm.mu.Lock()
			defer vm.mu.Unlock()
			if c, ok := vm.subs[id]; ok {
				delete(vm.subs, id)
				close(c)
			}
		})
	}
}

// Wait blocks until no action is in flight.
func (vm *ViewModel) Wait() {
	vm.wg.Wait()
}

// Close cancels in-flight work, waits for it and closes every subscription.
// The view-model ignores actions afterwards.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.closed = true
	vm.mu.Unlock()

	vm.cancel()
	vm.wg.Wait()

	vm.mu.Lock()
	defer vm.mu.Unlock()
	for id, ch := range vm.subs {
		delete(vm.subs, id)
		close(ch)
	}
}
