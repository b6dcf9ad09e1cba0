package activity

import (
	"fmt"
	"strings"

	"pointledger/bot/common"
	"pointledger/models"

	"github.com/bwmarrin/discordgo"
)

// BuildActivityEmbed lists the most recent transactions, newest first
func BuildActivityEmbed(balance int64, activity []*models.Transaction, limit int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📒 Recent Activity",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "💰 Balance",
				Value:  common.FormatBalance(balance) + " points",
				Inline: true,
			},
		},
	}

	if len(activity) == 0 {
		embed.Description = "No transactions yet. Try `/play`."
		return embed
	}

	shown := activity
	if len(shown) > limit {
		shown = shown[:limit]
	}

	lines := make([]string, 0, len(shown))
	for _, tx := range shown {
		lines = append(lines, common.FormatTransaction(tx))
	}
	embed.Description = strings.Join(lines, "\n")

	if len(activity) > limit {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing %d of %d transactions", limit, len(activity)),
		}
	}
	return embed
}
