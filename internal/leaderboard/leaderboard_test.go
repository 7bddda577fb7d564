package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coinquest/internal/account"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		xp      int
		user    string
		wantPos int
		wantLen int
	}{
		{"worldwide newcomer is last", Worldwide(), 0, "ada", 6, 6},
		{"worldwide leader", Worldwide(), 3000, "ada", 1, 6},
		{"friends middle", Friends(), 900, "ada", 3, 5},
		{"ties keep existing rows first", Friends(), 800, "ada", 4, 5},
		{"guest not ranked", Friends(), 5000, "", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			me := account.New(tt.user)
			me.AddXP(tt.xp)

			ranked := Rank(tt.entries, me)
			require.Len(t, ranked, tt.wantLen)
			assert.Equal(t, tt.wantPos, Position(ranked))
			for i, e := range ranked {
				assert.Equal(t, i+1, e.Rank)
				if i > 0 {
					assert.GreaterOrEqual(t, ranked[i-1].XP, e.XP)
				}
			}
		})
	}
}

func TestRankReplacesStoredSelf(t *testing.T) {
	me := account.New("Andy")
	me.AddXP(2000)

	ranked := Rank(Friends(), me)
	require.Len(t, ranked, 4)
	assert.Equal(t, "Andy", ranked[0].Username)
	assert.True(t, ranked[0].You)
	assert.Equal(t, 2000, ranked[0].XP)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := Worldwide()
	Rank(in, account.New("ada"))
	assert.Equal(t, Worldwide(), in)
}
