package types

// 中文说明：
// 本文件定义竞拍决策的输入上下文与基础枚举，供各决策层共用。

import (
	"fmt"
	"strings"
)

// Platform 支持的竞拍平台。
type Platform string

const (
	PlatformGoDaddy Platform = "godaddy"
	PlatformNameJet Platform = "namejet"
	PlatformDynadot Platform = "dynadot"
)

var supportedPlatforms = map[Platform]bool{
	PlatformGoDaddy: true,
	PlatformNameJet: true,
	PlatformDynadot: true,
}

// ParsePlatform 大小写不敏感解析平台名。
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	return p, supportedPlatforms[p]
}

// Supported 平台是否在支持集合内。
func (p Platform) Supported() bool { return supportedPlatforms[p] }

// ValueTier 价值档位：high ≥ $1000，medium ≥ $100，其余 low。
type ValueTier string

const (
	TierHigh   ValueTier = "high"
	TierMedium ValueTier = "medium"
	TierLow    ValueTier = "low"
)

// TierFor 按估值划分档位（边界值归入更高档）。
func TierFor(estimatedValue float64) ValueTier {
	switch {
	case estimatedValue >= 1000:
		return TierHigh
	case estimatedValue >= 100:
		return TierMedium
	default:
		return TierLow
	}
}

// BidderAnalysis 外部爬虫对当前对手的实时行为分析。
type BidderAnalysis struct {
	BotDetected     bool    `json:"bot_detected"`
	CorporateBuyer  bool    `json:"corporate_buyer"`
	AggressionScore float64 `json:"aggression_score"` // 0-10
	ReactionTimeAvg float64 `json:"reaction_time_avg"` // 秒
}

// AuctionContext 单次决策的不可变输入。
type AuctionContext struct {
	Domain           string         `json:"domain"`
	Platform         Platform       `json:"platform"`
	EstimatedValue   float64        `json:"estimated_value"`
	CurrentBid       float64        `json:"current_bid"`
	YourCurrentProxy float64        `json:"your_current_proxy"`
	BudgetAvailable  float64        `json:"budget_available"`
	NumBidders       int            `json:"num_bidders"`
	HoursRemaining   float64        `json:"hours_remaining"`
	BidderAnalysis   BidderAnalysis `json:"bidder_analysis"`

	// ThreadID 标识同一场物理竞拍的多轮决策；LastBidderID 可选。
	ThreadID     string `json:"thread_id"`
	LastBidderID string `json:"last_bidder_id,omitempty"`
}

// Validate 构造期校验：金额非负、平台受支持。估值为 0 不在此拒绝，
// 由安全层拦截并给出 do_not_bid。
func (c *AuctionContext) Validate() error {
	if c == nil {
		return fmt.Errorf("auction context 为空")
	}
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("domain 不能为空")
	}
	if !c.Platform.Supported() {
		return fmt.Errorf("不支持的平台: %q", c.Platform)
	}
	if c.EstimatedValue < 0 {
		return fmt.Errorf("estimated_value 不能为负: %.2f", c.EstimatedValue)
	}
	if c.CurrentBid < 0 {
		return fmt.Errorf("current_bid 不能为负: %.2f", c.CurrentBid)
	}
	if c.YourCurrentProxy < 0 {
		return fmt.Errorf("your_current_proxy 不能为负: %.2f", c.YourCurrentProxy)
	}
	if c.BudgetAvailable < 0 {
		return fmt.Errorf("budget_available 不能为负: %.2f", c.BudgetAvailable)
	}
	if c.NumBidders < 0 {
		return fmt.Errorf("num_bidders 不能为负: %d", c.NumBidders)
	}
	if c.HoursRemaining < 0 {
		return fmt.Errorf("hours_remaining 不能为负: %.2f", c.HoursRemaining)
	}
	if c.BidderAnalysis.AggressionScore < 0 || c.BidderAnalysis.AggressionScore > 10 {
		return fmt.Errorf("aggression_score 需在 0-10: %.2f", c.BidderAnalysis.AggressionScore)
	}
	if c.BidderAnalysis.ReactionTimeAvg < 0 {
		return fmt.Errorf("reaction_time_avg 不能为负: %.2f", c.BidderAnalysis.ReactionTimeAvg)
	}
	return nil
}

// Tier 当前估值对应的价值档位。
func (c *AuctionContext) Tier() ValueTier { return TierFor(c.EstimatedValue) }
