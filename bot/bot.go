package bot

import (
	"fmt"
	"strings"

	"pointledger/bot/features/activity"
	"pointledger/bot/features/balance"
	"pointledger/bot/features/play"
	"pointledger/bot/features/profile"
	"pointledger/bot/features/requests"
	"pointledger/bot/features/transfer"
	"pointledger/events"
	"pointledger/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // empty registers commands globally
}

// Services are the ledger operations the commands call
type Services struct {
	Users    service.UserService
	Games    service.GamblingService
	Transfer service.TransferService
	Requests service.PaymentRequestService
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config  Config
	session *discordgo.Session

	// Feature modules
	balance  *balance.Feature
	play     *play.Feature
	transfer *transfer.Feature
	requests *requests.Feature
	profile  *profile.Feature
	activity *activity.Feature

	registered []*discordgo.ApplicationCommand
}

// New creates a bot, connects it and registers its slash commands
func New(config Config, services Services, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	bot := &Bot{
		config:  config,
		session: dg,
	}

	// Create feature modules
	bot.balance = balance.New(services.Users)
	bot.play = play.New(services.Games)
	bot.transfer = transfer.New(services.Transfer)
	bot.requests = requests.NewFeature(dg, services.Requests)
	bot.profile = profile.NewFeature(services.Users)
	bot.activity = activity.NewFeature(services.Users)

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	if eventBus != nil {
		eventBus.Subscribe(events.EventTypePaymentRequest, bot.requests.NotifyStateChange)
	}

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithField("guild_id", config.GuildID).Info("Discord bot connected")
	return bot, nil
}

// Close removes guild-scoped commands and closes the session
func (b *Bot) Close() error {
	if b.config.GuildID != "" {
		for _, cmd := range b.registered {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
				log.WithError(err).WithField("command", cmd.Name).Warn("Failed to delete command")
			}
		}
	}
	return b.session.Close()
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.balance.HandleCommand(s, i)
	case "play":
		b.play.HandleCommand(s, i)
	case "send", "withdraw":
		b.transfer.HandleCommand(s, i)
	case "request", "requests", "accept", "decline":
		b.requests.HandleCommand(s, i)
	case "handle", "name":
		b.profile.HandleCommand(s, i)
	case "activity":
		b.activity.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "request_"):
		b.requests.HandleInteraction(s, i)
	}
}
