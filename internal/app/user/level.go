package user

import "time"

const (
	trainingPeriodDays  = 3
	expertReputationMin = 100
)

// Classify derives the membership tier from account age and reputation.
// Moderator and admin are administratively assigned and sticky; the three
// lower tiers are always recomputed from this function, the stored column
// is only a cache.
func Classify(u *User, now time.Time) Level {
	if u.Level == LevelModerator || u.Level == LevelAdmin {
		return u.Level
	}
	if AccountAgeDays(u, now) < trainingPeriodDays {
		return LevelTrainee
	}
	if u.Reputation >= expertReputationMin {
		return LevelExpert
	}
	return LevelMember
}

// AccountAgeDays returns the number of full days since the account was
// created. Exactly 3.0 days counts as day 3, so the trainee window is
// [0, 3) and the boundary is member-eligible.
func AccountAgeDays(u *User, now time.Time) int {
	age := now.Sub(u.CreatedAt)
	if age < 0 {
		return 0
	}
	return int(age / (24 * time.Hour))
}

// Reclassify recomputes the derived tier on a cached profile snapshot. The
// cache may outlive a tier boundary, so a snapshot's level is never served
// without rederiving it from age and reputation.
func (p *Profile) Reclassify(now time.Time) {
	p.Level = Classify(&User{
		Level:      p.Level,
		Reputation: p.Reputation,
		CreatedAt:  time.UnixMilli(p.CreatedAt).UTC(),
	}, now)
}

// LevelRank orders levels for minimum-level comparisons.
func LevelRank(l Level) int {
	switch l {
	case LevelTrainee:
		return 0
	case LevelMember:
		return 1
	case LevelExpert:
		return 2
	case LevelModerator:
		return 3
	case LevelAdmin:
		return 4
	default:
		return -1
	}
}

// IsAdmin is the single admin predicate. legacyAdminUsername keeps the
// historical username-based bypass alive while it is being migrated out;
// pass "" to disable it.
func IsAdmin(u *User, legacyAdminUsername string) bool {
	if u.Level == LevelAdmin {
		return true
	}
	return legacyAdminUsername != "" && u.Username == legacyAdminUsername
}
