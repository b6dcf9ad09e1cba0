package requests

import (
	"context"
	"fmt"
	"strings"

	"pointledger/bot/common"
	"pointledger/events"
	"pointledger/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i)

	var target string
	if opt, ok := options["user"]; ok {
		if user := opt.UserValue(s); user != nil {
			target = user.ID
		}
	}
	if opt, ok := options["handle"]; ok && target == "" {
		target = strings.TrimSpace(opt.StringValue())
	}
	if target == "" {
		common.RespondWithError(s, i, "Provide a user or a $handle to request from.")
		return
	}

	var amount int64
	if opt, ok := options["amount"]; ok {
		amount = opt.IntValue()
	}
	var note string
	if opt, ok := options["note"]; ok {
		note = opt.StringValue()
	}

	requesterID := common.CallerID(i)
	req, err := f.requestService.CreateRequest(ctx, requesterID, target, amount, note)
	if err != nil {
		log.WithError(err).WithField("requester_id", requesterID).Warn("Payment request rejected")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("📤 Requested **%s points** from <@%s> (id `%s`)",
		common.FormatBalance(req.Amount), req.ToUserID, req.ID), true)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.CallerID(i)

	pending, err := f.requestService.ListPendingRequests(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error listing requests")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithEmbed(s, i, BuildPendingListEmbed(pending, userID), true)
}

func (f *Feature) handleAccept(s *discordgo.Session, i *discordgo.InteractionCreate, requestID string) {
	ctx := context.Background()
	payerID := common.CallerID(i)

	_, result, err := f.requestService.AcceptRequest(ctx, payerID, requestID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"payer_id":   payerID,
			"request_id": requestID,
		}).Warn("Accept rejected")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, common.FormatTransferResult(result), true)
}

func (f *Feature) handleDecline(s *discordgo.Session, i *discordgo.InteractionCreate, requestID string) {
	ctx := context.Background()
	callerID := common.CallerID(i)

	req, err := f.requestService.DeclineRequest(ctx, callerID, requestID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"caller_id":  callerID,
			"request_id": requestID,
		}).Warn("Decline rejected")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("Declined request `%s` for **%s points**",
		req.ID, common.FormatBalance(req.Amount)), true)
}

// NotifyStateChange DMs the payer when a request is created and the requester once someone else closes it
func (f *Feature) NotifyStateChange(ctx context.Context, event events.Event) {
	e, ok := event.(events.PaymentRequestStateChangeEvent)
	if !ok {
		return
	}

	n, ok := notificationFor(e)
	if !ok {
		return
	}

	if err := common.SendDirectMessage(f.session, n.recipient, n.embed, n.components); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id":    n.recipient,
			"request_id": e.RequestID,
		}).Warn("Failed to send request notification")
	}
}

type notification struct {
	recipient  string
	embed      *discordgo.MessageEmbed
	components []discordgo.MessageComponent
}

// notificationFor picks the DM for a state change. Nobody is told about their own decline.
func notificationFor(e events.PaymentRequestStateChangeEvent) (notification, bool) {
	switch {
	case e.OldStatus == "" && e.NewStatus == models.PaymentRequestStatusPending:
		return notification{
			recipient:  e.ToUserID,
			embed:      BuildIncomingRequestEmbed(e),
			components: BuildRequestComponents(e.RequestID),
		}, true
	case e.NewStatus == models.PaymentRequestStatusDeclined && e.ActorID == e.FromUserID:
		return notification{}, false
	case e.NewStatus == models.PaymentRequestStatusCompleted, e.NewStatus == models.PaymentRequestStatusDeclined:
		return notification{
			recipient: e.FromUserID,
			embed:     BuildResolvedRequestEmbed(e),
		}, true
	default:
		return notification{}, false
	}
}
