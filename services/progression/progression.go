package progression

import (
	"math"

	"Abuze/models/postgres"

	"gorm.io/gorm"
)

// MaxLevel caps the curve; past it the progress bar stays full.
const MaxLevel = 100

// XP grants awarded by feed actions. Applied to the receiving profile
// through GrantXP.
const (
	XPPostCreated     = 25
	XPLikeReceived    = 5
	XPCommentReceived = 10
)

// Info is the result of mapping accumulated XP onto the level curve.
type Info struct {
	Level    int     `json:"level"`
	Progress float64 `json:"progress"`
}

// LevelInfo maps accumulated experience to a level and the fraction of
// progress towards the next one.
//
// Level L starts at (L-1)^2 * 100 XP: 0 xp = level 1, 100 xp = level 2,
// 400 xp = level 3 and so on, capped at MaxLevel.
func LevelInfo(xp int) Info {
	if xp < 0 {
		xp = 0
	}

	level := int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
	if level >= MaxLevel {
		// No next boundary past the cap, the bar is pinned full.
		return Info{Level: MaxLevel, Progress: 1.0}
	}

	base := (level - 1) * (level - 1) * 100
	next := level * level * 100

	progress := float64(xp-base) / float64(next-base)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return Info{Level: level, Progress: progress}
}

// Cosmetic avatar frame tiers, lower bound inclusive.
type Tier string

const (
	TierBasic      Tier = "basic"
	TierSilver     Tier = "silver"
	TierGold       Tier = "gold"
	TierIridescent Tier = "iridescent"
	TierEntity     Tier = "entity"
)

// FrameTier selects the avatar frame shown for a level.
func FrameTier(level int) Tier {
	switch {
	case level >= 100:
		return TierEntity
	case level >= 50:
		return TierIridescent
	case level >= 20:
		return TierGold
	case level >= 5:
		return TierSilver
	default:
		return TierBasic
	}
}

// GrantXP adds amount to a profile's accumulated XP as a single SQL
// increment, so concurrent grants never lose updates. Granting to an
// unknown username is a no-op: grants ride on best-effort paths.
func GrantXP(db *gorm.DB, username string, amount int) error {
	return db.Model(&postgres.Profile{}).
		Where("username = ?", username).
		UpdateColumn("xp", gorm.Expr("xp + ?", amount)).Error
}
