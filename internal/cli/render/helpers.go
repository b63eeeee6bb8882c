package render

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatEther renders a wei amount in ether without trailing zeros
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0 ETH"
	}
	value := new(big.Float).SetPrec(256).SetInt(wei)
	value.Quo(value, new(big.Float).SetPrec(256).SetInt64(params.Ether))
	text := value.Text('f', 18)
	if strings.Contains(text, ".") {
		text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	}
	return text + " ETH"
}

// FormatGas groups the digits of a gas amount
func FormatGas(gas uint64) string {
	return printer.Sprintf("%d", gas)
}

// FormatVerification colors a verification status
func FormatVerification(status domain.VerificationStatus) string {
	switch {
	case status == domain.VerificationStatusVerified:
		return verifiedStyle.Sprint("✔︎ verified")
	case status == domain.VerificationStatusFailed:
		return notVerifiedStyle.Sprint("✗ failed")
	case status.Skipped():
		return skippedStyle.Sprintf("– %s", skipLabel(status))
	default:
		return pendingStyle.Sprint("unverified")
	}
}

func skipLabel(status domain.VerificationStatus) string {
	switch status {
	case domain.VerificationStatusSkippedDevelopment:
		return "skipped (development network)"
	case domain.VerificationStatusSkippedNoCredential:
		return "skipped (no explorer API key)"
	default:
		return string(status)
	}
}
