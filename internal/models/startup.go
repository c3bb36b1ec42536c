package models

// SocialLinks are optional links shown on a startup's page.
type SocialLinks struct {
	Twitter string `json:"twitter,omitempty"`
	Website string `json:"website,omitempty"`
}

// Startup is a token launched by a user of the simulator.
// It exists only in memory and never appears on the indexer.
type Startup struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Symbol          string      `json:"symbol"`
	Logo            string      `json:"logo"` // data URL
	Description     string      `json:"description"`
	SocialLinks     SocialLinks `json:"socialLinks"`
	CreatorID       int64       `json:"creatorId"`
	CreatorAddress  string      `json:"creatorAddress"`
	InitialPurchase float64     `json:"initialPurchase"`
	LastPriceUSD    string      `json:"lastPriceUsd"`
	TotalVolumeEth  string      `json:"totalVolumeEth"`
	TradeCount      string      `json:"tradeCount"`
	CreatedAt       int64       `json:"createdAt"` // unix milliseconds
}
