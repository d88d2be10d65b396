package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:points"

// LeaderboardEntry is one ranked row from the points sorted set.
type LeaderboardEntry struct {
	UserID uint
	Points int
}

// Leaderboard maintains the points ranking in a redis sorted set so reads
// never hit the database on the hot path.
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// SetScore writes a user's total points. Scores are absolute, not deltas, so
// replaying an update is harmless.
func (l *Leaderboard) SetScore(ctx context.Context, userID uint, points int) error {
	member := redis.Z{
		Score:  float64(points),
		Member: strconv.FormatUint(uint64(userID), 10),
	}
	if err := l.client.ZAdd(ctx, leaderboardKey, member).Err(); err != nil {
		return fmt.Errorf("failed to update leaderboard score: %w", err)
	}
	return nil
}

// Top returns the highest-scoring users, best first.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	members, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseUint(member.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID: uint(id),
			Points: int(member.Score),
		})
	}
	return entries, nil
}

// Rank returns a user's 1-based rank, or 0 when the user is not ranked.
func (l *Leaderboard) Rank(ctx context.Context, userID uint) (int64, error) {
	rank, err := l.client.ZRevRank(ctx, leaderboardKey, strconv.FormatUint(uint64(userID), 10)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read leaderboard rank: %w", err)
	}
	return rank + 1, nil
}
