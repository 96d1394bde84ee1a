package api

// VsCurrency is the quote currency for every request.
const VsCurrency = "usd"

// SimplePrice is the parsed result of GET /simple/price for one coin.
type SimplePrice struct {
	USD       float64 // Spot price
	Change24h float64 // 24h percent change, 0 when absent
}
