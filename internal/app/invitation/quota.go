package invitation

import "backend/internal/app/user"

const unbounded = -1

var quotaByLevel = map[user.Level]int{
	user.LevelTrainee:   0,
	user.LevelMember:    3,
	user.LevelExpert:    10,
	user.LevelModerator: 20,
	user.LevelAdmin:     unbounded,
}

// QuotaFor returns the maximum number of outstanding active codes for a
// level. The second return is false when the quota is unbounded.
func QuotaFor(level user.Level) (int, bool) {
	quota, ok := quotaByLevel[level]
	if !ok {
		return 0, true
	}
	if quota == unbounded {
		return 0, false
	}
	return quota, true
}
