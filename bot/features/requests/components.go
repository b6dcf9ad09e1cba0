package requests

import (
	"github.com/bwmarrin/discordgo"
)

// BuildRequestComponents creates the accept/decline buttons sent to the payer
func BuildRequestComponents(requestID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "✅ Pay",
					Style:    discordgo.SuccessButton,
					CustomID: acceptPrefix + requestID,
				},
				discordgo.Button{
					Label:    "❌ Decline",
					Style:    discordgo.DangerButton,
					CustomID: declinePrefix + requestID,
				},
			},
		},
	}
}
