package activity

import (
	"strings"
	"testing"
	"time"

	"pointledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildActivityEmbed_Empty(t *testing.T) {
	embed := BuildActivityEmbed(0, nil, 10)

	assert.Contains(t, embed.Description, "No transactions yet")
	assert.Nil(t, embed.Footer)
}

func TestBuildActivityEmbed_Truncates(t *testing.T) {
	var activity []*models.Transaction
	for n := 0; n < 12; n++ {
		activity = append(activity, &models.Transaction{
			Type:      models.TransactionTypeGamePayout,
			Direction: models.DirectionCredit,
			Amount:    1,
			CreatedAt: time.Unix(1714564800, 0),
		})
	}

	embed := BuildActivityEmbed(12, activity, 10)

	assert.Len(t, strings.Split(embed.Description, "\n"), 10)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Showing 10 of 12 transactions", embed.Footer.Text)
	assert.Equal(t, "12 points", embed.Fields[0].Value)
}
