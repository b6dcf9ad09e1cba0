package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var minAmount = 1.0

func amountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		Required:    true,
		MinValue:    &minAmount,
	}
}

func noteOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "note",
		Description: "Optional note (up to 140 characters)",
		MaxLength:   140,
	}
}

func requestIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "id",
		Description: "Payment request ID",
		Required:    true,
	}
}

// commandDefinitions lists every slash command the bot serves
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current balance",
		},
		{
			Name:        "play",
			Description: "Play for points",
		},
		{
			Name:        "send",
			Description: "Send points to another user",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount of points to send"),
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to send to",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "handle",
					Description: "Handle to send to, e.g. $alice",
				},
				noteOption(),
			},
		},
		{
			Name:        "withdraw",
			Description: "Withdraw points from your balance",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount of points to withdraw"),
			},
		},
		{
			Name:        "request",
			Description: "Request points from another user",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount of points to request"),
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to request from",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "handle",
					Description: "Handle to request from, e.g. $alice",
				},
				noteOption(),
			},
		},
		{
			Name:        "requests",
			Description: "List your pending payment requests",
		},
		{
			Name:        "accept",
			Description: "Pay a pending request addressed to you",
			Options:     []*discordgo.ApplicationCommandOption{requestIDOption()},
		},
		{
			Name:        "decline",
			Description: "Decline a pending request",
			Options:     []*discordgo.ApplicationCommandOption{requestIDOption()},
		},
		{
			Name:        "handle",
			Description: "Claim or change your $handle",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "handle",
					Description: "2-16 letters, digits or underscores",
					Required:    true,
				},
			},
		},
		{
			Name:        "name",
			Description: "Set your display name",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Display name",
					Required:    true,
				},
			},
		},
		{
			Name:        "activity",
			Description: "Show your recent transactions",
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}

	return nil
}
