package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelInfo(t *testing.T) {
	t.Run("fresh profile starts at level 1 with empty bar", func(t *testing.T) {
		info := LevelInfo(0)
		assert.Equal(t, 1, info.Level)
		assert.Equal(t, 0.0, info.Progress)
	})

	t.Run("exact boundary lands on the new level with empty bar", func(t *testing.T) {
		info := LevelInfo(100)
		assert.Equal(t, 2, info.Level)
		assert.Equal(t, 0.0, info.Progress)

		info = LevelInfo(400)
		assert.Equal(t, 3, info.Level)
		assert.Equal(t, 0.0, info.Progress)
	})

	t.Run("mid level progress is the fraction of the bracket", func(t *testing.T) {
		// Level 2 spans [100, 400), so 250 xp is halfway.
		info := LevelInfo(250)
		assert.Equal(t, 2, info.Level)
		assert.InDelta(t, 0.5, info.Progress, 1e-9)
	})

	t.Run("level never decreases as xp grows", func(t *testing.T) {
		prev := 0
		for xp := 0; xp <= 1_100_000; xp += 777 {
			info := LevelInfo(xp)
			assert.GreaterOrEqual(t, info.Level, prev, "xp=%d", xp)
			prev = info.Level
		}
	})

	t.Run("caps at the max level with a pinned bar", func(t *testing.T) {
		// (MaxLevel-1)^2 * 100 is the cap boundary.
		boundary := (MaxLevel - 1) * (MaxLevel - 1) * 100

		info := LevelInfo(boundary)
		assert.Equal(t, MaxLevel, info.Level)
		assert.Equal(t, 1.0, info.Progress)

		info = LevelInfo(boundary * 50)
		assert.Equal(t, MaxLevel, info.Level)
		assert.Equal(t, 1.0, info.Progress)
	})

	t.Run("negative xp behaves like zero", func(t *testing.T) {
		assert.Equal(t, LevelInfo(0), LevelInfo(-5))
	})
}

func TestFrameTier(t *testing.T) {
	cases := []struct {
		level int
		want  Tier
	}{
		{1, TierBasic},
		{4, TierBasic},
		{5, TierSilver},
		{19, TierSilver},
		{20, TierGold},
		{49, TierGold},
		{50, TierIridescent},
		{99, TierIridescent},
		{100, TierEntity},
		{250, TierEntity},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FrameTier(tc.level), "level %d", tc.level)
	}
}
