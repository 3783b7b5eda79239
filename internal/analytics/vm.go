package analytics

// Dashboard is the composite the admin panel renders. Each figure comes
// from its own query; there is no snapshot isolation between them, so a
// sale landing mid-build can appear in one figure and not another. That
// is accepted for a dashboard refreshed every few minutes.
type Dashboard struct {
	DailySales   float64        `json:"dailySales"`
	MonthlySales float64        `json:"monthlySales"`
	TopProducts  []ProductCount `json:"topProducts"`
	SalesByHour  []HourCount    `json:"salesByHour"`
	SpicyRatio   Ratio          `json:"spicyRatio"`
	ProfitByLine []LineRevenue  `json:"profitByLine"`
}

// ProductCount ranks a product by units sold.
type ProductCount struct {
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
}

// HourCount is one bar of today's sales-per-hour histogram.
type HourCount struct {
	Hour     int   `json:"hour"`
	Quantity int64 `json:"quantity"`
}

// Ratio counts spicy against non-spicy edible entries (tamales and
// drinks) in the catalog.
type Ratio struct {
	Spicy    int64 `json:"spicy"`
	NonSpicy int64 `json:"nonSpicy"`
}

// LineRevenue is gross revenue attributed to one product line.
type LineRevenue struct {
	Kind    string  `json:"kind"`
	Revenue float64 `json:"revenue"`
}
