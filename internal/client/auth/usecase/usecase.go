// Package usecase holds the auth use cases the view-model depends on instead of the repository.
package usecase

import (
	"context"

	"github.com/Snehil208001/Gr-nZimmer/internal/client/auth/repository"
)

// OTPRepository is the part of repository.Repository the phone use cases need.
type OTPRepository interface {
	SendOTP(ctx context.Context, phone string) (repository.PendingVerification, error)
	VerifyOTP(ctx context.Context, pending repository.PendingVerification, code string) error
}

// SendOTP starts a phone challenge.
type SendOTP struct {
	repo OTPRepository
}

func NewSendOTP(repo OTPRepository) *SendOTP {
	return &SendOTP{repo: repo}
}

func (u *SendOTP) Execute(ctx context.Context, phone string) (repository.PendingVerification, error) {
	return u.repo.SendOTP(ctx, phone)
}

// VerifyOTP confirms a phone challenge.
type VerifyOTP struct {
	repo OTPRepository
}

func NewVerifyOTP(repo OTPRepository) *VerifyOTP {
	return &VerifyOTP{repo: repo}
}

func (u *VerifyOTP) Execute(ctx context.Context, pending repository.PendingVerification, code string) error {
	return u.repo.VerifyOTP(ctx, pending, code)
}
