package common

import (
	"fmt"
	"strings"
	"time"

	"pointledger/models"
	"pointledger/service"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	sign := ""
	if balance < 0 {
		sign = "-"
		balance = -balance
	}

	str := fmt.Sprintf("%d", balance)
	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatPlayResult formats the outcome of a play
func FormatPlayResult(result *models.PlayResult) string {
	if result.Win {
		return fmt.Sprintf("🎉 **Bonus!** You earned **%s points**. New balance: **%s points**",
			FormatBalance(result.Payout), FormatBalance(result.NewBalance))
	}
	return fmt.Sprintf("🪙 You earned **%s point%s**. New balance: **%s points**",
		FormatBalance(result.Payout), plural(result.Payout), FormatBalance(result.NewBalance))
}

// FormatTransferResult formats the result of a transfer
func FormatTransferResult(result *models.TransferResult) string {
	return fmt.Sprintf("✅ Sent **%s points** to **%s**. New balance: **%s points**",
		FormatBalance(result.Amount), FormatCounterparty(result.Recipient), FormatBalance(result.SenderBalance))
}

// FormatWithdrawResult formats a simulated withdrawal
func FormatWithdrawResult(result *models.WithdrawResult) string {
	return fmt.Sprintf("🏧 Withdrew **%s points** (ref `%s`). New balance: **%s points**",
		FormatBalance(result.Amount), result.WithdrawalID, FormatBalance(result.NewBalance))
}

// FormatCounterparty prefers the handle, then the display name, then a user mention
func FormatCounterparty(c *models.Counterparty) string {
	if c == nil {
		return "Unknown"
	}
	if c.Handle != "" {
		return "$" + c.Handle
	}
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return fmt.Sprintf("<@%s>", c.UserID)
}

// FormatTransaction renders one activity line
func FormatTransaction(tx *models.Transaction) string {
	var label string
	switch tx.Type {
	case models.TransactionTypeGamePayout:
		label = "Play"
	case models.TransactionTypeWithdraw:
		label = "Withdrawal"
	case models.TransactionTypeTransferSent:
		label = "Sent to " + FormatCounterparty(tx.Counterparty)
	case models.TransactionTypeTransferReceived:
		label = "Received from " + FormatCounterparty(tx.Counterparty)
	default:
		label = string(tx.Type)
	}

	line := fmt.Sprintf("`%+d` %s %s", tx.SignedAmount(), label, FormatDiscordTimestamp(tx.CreatedAt, "R"))
	if tx.Note != "" && tx.Type != models.TransactionTypeGamePayout && tx.Type != models.TransactionTypeWithdraw {
		line += fmt.Sprintf(" _%s_", tx.Note)
	}
	return line
}

// FormatPaymentRequest renders a request from the viewer's side
func FormatPaymentRequest(req *models.PaymentRequest, viewerID string) string {
	var line string
	if req.IsIncoming(viewerID) {
		line = fmt.Sprintf("📥 <@%s> requests **%s points**", req.FromUserID, FormatBalance(req.Amount))
	} else {
		line = fmt.Sprintf("📤 You requested **%s points** from <@%s>", FormatBalance(req.Amount), req.ToUserID)
	}
	if req.Note != "" {
		line += fmt.Sprintf(" _%s_", req.Note)
	}
	return fmt.Sprintf("%s (id `%s`)", line, req.ID)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// ErrorMessage turns a ledger failure into text for the invoking user
func ErrorMessage(err error) string {
	if service.KindOf(err) == service.KindInternal {
		return "Something went wrong. Please try again."
	}
	msg := service.MessageOf(err)
	if msg == "" {
		return "Request failed."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func plural(n int64) string {
	if n == 1 {
		return ""
	}
	return "s"
}
