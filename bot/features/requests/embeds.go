package requests

import (
	"fmt"
	"strings"

	"pointledger/bot/common"
	"pointledger/events"
	"pointledger/models"

	"github.com/bwmarrin/discordgo"
)

// BuildIncomingRequestEmbed is the DM a payer receives for a new request
func BuildIncomingRequestEmbed(e events.PaymentRequestStateChangeEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📥 Payment Request",
		Description: fmt.Sprintf("<@%s> is requesting **%s points** from you.", e.FromUserID, common.FormatBalance(e.Amount)),
		Color:       common.ColorWarning,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Request ID: " + e.RequestID,
		},
	}

	if e.Note != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📝 Note",
			Value: e.Note,
		})
	}
	return embed
}

// BuildResolvedRequestEmbed tells the requester how their request ended
func BuildResolvedRequestEmbed(e events.PaymentRequestStateChangeEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Request ID: " + e.RequestID,
		},
	}

	switch e.NewStatus {
	case models.PaymentRequestStatusCompleted:
		embed.Title = "✅ Request Paid"
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("<@%s> paid your request for **%s points**.", e.ToUserID, common.FormatBalance(e.Amount))
	default:
		embed.Title = "❌ Request Declined"
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("Your request to <@%s> for **%s points** was declined.", e.ToUserID, common.FormatBalance(e.Amount))
	}
	return embed
}

// BuildPendingListEmbed lists the caller's pending requests
func BuildPendingListEmbed(pending []*models.PaymentRequest, viewerID string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🧾 Pending Requests",
		Color: common.ColorPrimary,
	}

	if len(pending) == 0 {
		embed.Description = "No pending requests."
		return embed
	}

	lines := make([]string, 0, len(pending))
	for _, req := range pending {
		lines = append(lines, common.FormatPaymentRequest(req, viewerID))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}
