package phoneauth

import (
	"errors"
	"testing"
)

func TestGenerateOTP_ReturnsSixDigits(t *testing.T) {
	otp, err := GenerateOTP()
	if err != nil {
		t.Fatalf("GenerateOTP: %v", err)
	}
	if _, err := ValidateCode(otp); err != nil {
		t.Errorf("GenerateOTP produced %q, which fails ValidateCode: %v", otp, err)
	}
}

func TestGenerateOTP_Randomness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		seen[otp] = true
	}
	if len(seen) < 90 {
		t.Errorf("only %d distinct codes in 100 draws", len(seen))
	}
}

func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "+4915112345678", "+4915112345678", false},
		{"formatted", " +49 (151) 123-456.78 ", "+4915112345678", false},
		{"india", "+919876543210", "+919876543210", false},
		{"missing plus", "4915112345678", "", true},
		{"leading zero", "+0151123456", "", true},
		{"too short", "+4912", "", true},
		{"too long", "+1234567890123456", "", true},
		{"letters", "+49151abc5678", "", true},
		{"empty", "", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Fatalf("NormalizePhone(%q): want ErrInvalidPhone, got %v", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidateCode(t *testing.T) {
	if got, err := ValidateCode(" 123456 "); err != nil || got != "123456" {
		t.Errorf("ValidateCode(\" 123456 \") = %q, %v", got, err)
	}
	for _, bad := range []string{"", "12345", "1234567", "12a456", "１２３４５６"} {
		if _, err := ValidateCode(bad); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("ValidateCode(%q): want ErrInvalidCode, got %v", bad, err)
		}
	}
}

func TestMaskPhone(t *testing.T) {
	if got := MaskPhone("+4915112345678"); got != "+49*********78" {
		t.Errorf("MaskPhone = %q", got)
	}
	if got := MaskPhone("+49"); got != "***" {
		t.Errorf("MaskPhone short = %q", got)
	}
}
