package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "ai-blog-cms"

// TOTPEnrollment holds everything a client needs to enroll a second
// factor: the raw secret, the otpauth provisioning URL, and a QR code
// of that URL as a base64-encoded PNG.
type TOTPEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qr_code"`
}

// NewTOTPEnrollment generates a fresh TOTP secret for the account and
// renders its provisioning QR code.
func NewTOTPEnrollment(accountName string) (*TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("totp qr encode: %w", err)
	}

	return &TOTPEnrollment{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// ValidateTOTP checks a 6-digit code against a stored secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
