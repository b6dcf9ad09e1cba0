package balance

import (
	"context"
	"fmt"

	"pointledger/bot/common"
	"pointledger/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.CallerID(i)

	overview, err := f.userService.GetOrCreateUser(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error getting user")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, formatBalance(overview), true)
}

func formatBalance(overview *models.UserOverview) string {
	message := fmt.Sprintf("Your current balance: **%s points**", common.FormatBalance(overview.Account.Balance))
	if overview.Profile.HasHandle() {
		message += fmt.Sprintf(" (handle **$%s**)", overview.Profile.Handle)
	}
	return message
}
