package activity

import (
	"context"

	"pointledger/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleActivity(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.CallerID(i)

	overview, err := f.userService.GetOrCreateUser(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error getting user")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	activity, err := f.userService.ListActivity(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error listing activity")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithEmbed(s, i, BuildActivityEmbed(overview.Account.Balance, activity, common.ActivityPageSize), true)
}
