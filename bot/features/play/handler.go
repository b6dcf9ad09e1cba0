package play

import (
	"context"

	"pointledger/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.CallerID(i)

	result, err := f.gamblingService.Play(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error processing play")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, common.FormatPlayResult(result), false)
}
