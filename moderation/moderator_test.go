package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModerator_Censor_MasksBannedWord(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"leek"}, '*')
	req.NoError(err)

	censored, found := moderator.Censor("what a leek day")

	req.Equal("what a **** day", censored)
	req.Equal([]string{"leek"}, found)
}

func TestModerator_Censor_IgnoresCaseAndLeetSpeak(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"leek"}, '#')
	req.NoError(err)

	censored, found := moderator.Censor("L33K spotted")

	req.Equal("#### spotted", censored)
	req.Len(found, 1)
}

func TestModerator_Censor_PassesCleanTextThrough(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"leek"}, '*')
	req.NoError(err)

	censored, found := moderator.Censor("nothing to see here")

	req.Equal("nothing to see here", censored)
	req.Empty(found)
}

func TestModerator_EmptyWordList_IsPassthrough(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator(nil, '*')
	req.NoError(err)

	censored, found := moderator.Censor("anything goes")

	req.Equal("anything goes", censored)
	req.Empty(found)
}
