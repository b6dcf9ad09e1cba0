package transfer

import (
	"context"
	"strings"

	"pointledger/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleSend(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i)

	var amount int64
	if opt, ok := options["amount"]; ok {
		amount = opt.IntValue()
	}

	var mentioned *discordgo.User
	if opt, ok := options["user"]; ok {
		mentioned = opt.UserValue(s)
	}
	var handle string
	if opt, ok := options["handle"]; ok {
		handle = opt.StringValue()
	}

	var note string
	if opt, ok := options["note"]; ok {
		note = opt.StringValue()
	}

	recipient := Recipient(mentioned, handle)
	if recipient == "" {
		common.RespondWithError(s, i, "Provide a user or a $handle to send to.")
		return
	}

	senderID := common.CallerID(i)
	result, err := f.transferService.Transfer(ctx, senderID, recipient, amount, note)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"sender_id": senderID,
			"recipient": recipient,
			"amount":    amount,
		}).Warn("Transfer rejected")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, common.FormatTransferResult(result), false)
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i)

	var amount int64
	if opt, ok := options["amount"]; ok {
		amount = opt.IntValue()
	}

	userID := common.CallerID(i)
	result, err := f.transferService.Withdraw(ctx, userID, amount)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Withdrawal rejected")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, common.FormatWithdrawResult(result), true)
}

// Recipient picks the ledger selector for a send: a mentioned user wins over a typed handle
func Recipient(mentioned *discordgo.User, handle string) string {
	if mentioned != nil {
		return mentioned.ID
	}
	return strings.TrimSpace(handle)
}
