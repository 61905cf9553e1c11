package recommend

import "fmt"

// Defaults mirror the tuning the recommendation graph was built around:
// sampling keeps traversals OLTP-sized regardless of graph growth.
const (
	DefaultMinRating    = 3
	DefaultSampleSize   = 1000
	DefaultPerUserLimit = 5
	DefaultTopN         = 5
)

// Config bounds the two-hop traversal. Total work per query is
// O(SampleSize * PerUserLimit) regardless of graph size.
type Config struct {
	// MinRating is the minimum rating an edge must carry to qualify as a
	// taste signal at either hop.
	MinRating int

	// SampleSize caps how many rating edges are followed at the first hop,
	// preferring higher ratings when trimming.
	SampleSize int

	// PerUserLimit caps how many of each sampled user's rated videos are
	// considered at the second hop.
	PerUserLimit int

	// TopN is the number of recommendations returned after ranking.
	TopN int
}

// DefaultConfig returns the production traversal bounds.
func DefaultConfig() *Config {
	return &Config{
		MinRating:    DefaultMinRating,
		SampleSize:   DefaultSampleSize,
		PerUserLimit: DefaultPerUserLimit,
		TopN:         DefaultTopN,
	}
}

// Validate checks that all bounds are usable.
func (c *Config) Validate() error {
	if c.MinRating < 1 || c.MinRating > 5 {
		return fmt.Errorf("min rating must be within 1-5, got %d", c.MinRating)
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("sample size must be positive, got %d", c.SampleSize)
	}
	if c.PerUserLimit <= 0 {
		return fmt.Errorf("per-user limit must be positive, got %d", c.PerUserLimit)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top-n must be positive, got %d", c.TopN)
	}
	return nil
}
