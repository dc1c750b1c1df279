package types

import (
	"encoding/json"
	"math"
)

// encoding/json rejects NaN, so the structs that use NaN for absent
// fields marshal those fields as null.

func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func (s IndicatorSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Close      *float64 `json:"current_price"`
		RSI        *float64 `json:"rsi"`
		MACD       *float64 `json:"macd"`
		MACDSignal *float64 `json:"macd_signal"`
		MACDHist   *float64 `json:"macd_histogram"`
		BBUpper    *float64 `json:"bb_upper"`
		BBMiddle   *float64 `json:"bb_middle"`
		BBLower    *float64 `json:"bb_lower"`
		BBWidth    *float64 `json:"bb_width"`
		SMAShort   *float64 `json:"sma_50"`
		SMALong    *float64 `json:"sma_200"`
	}{
		Close:      nullable(s.Close),
		RSI:        nullable(s.RSI),
		MACD:       nullable(s.MACD),
		MACDSignal: nullable(s.MACDSignal),
		MACDHist:   nullable(s.MACDHist),
		BBUpper:    nullable(s.BBUpper),
		BBMiddle:   nullable(s.BBMiddle),
		BBLower:    nullable(s.BBLower),
		BBWidth:    nullable(s.BBWidth),
		SMAShort:   nullable(s.SMAShort),
		SMALong:    nullable(s.SMALong),
	})
}

func (m FinancialMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PE            *float64 `json:"pe"`
		PEG           *float64 `json:"peg"`
		PB            *float64 `json:"pb"`
		ROE           *float64 `json:"roe"`
		RevenueGrowth *float64 `json:"revenue_growth"`
	}{
		PE:            nullable(m.PE),
		PEG:           nullable(m.PEG),
		PB:            nullable(m.PB),
		ROE:           nullable(m.ROE),
		RevenueGrowth: nullable(m.RevenueGrowth),
	})
}

func (r EarningsRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ReportDate      string   `json:"report_date"`
		ReportType      string   `json:"report_type"`
		Revenue         *float64 `json:"revenue"`
		NetIncome       *float64 `json:"net_income"`
		GrossProfit     *float64 `json:"gross_profit"`
		OperatingIncome *float64 `json:"operating_income"`
		GrossMargin     *float64 `json:"gross_margin"`
		OperatingMargin *float64 `json:"operating_margin"`
	}{
		ReportDate:      r.ReportDate,
		ReportType:      r.ReportType,
		Revenue:         nullable(r.Revenue),
		NetIncome:       nullable(r.NetIncome),
		GrossProfit:     nullable(r.GrossProfit),
		OperatingIncome: nullable(r.OperatingIncome),
		GrossMargin:     nullable(r.GrossMargin),
		OperatingMargin: nullable(r.OperatingMargin),
	})
}

func (c CompanySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name      string   `json:"company_name"`
		Sector    string   `json:"sector"`
		Industry  string   `json:"industry"`
		MarketCap *float64 `json:"market_cap"`
		Currency  string   `json:"currency"`
	}{
		Name:      c.Name,
		Sector:    c.Sector,
		Industry:  c.Industry,
		MarketCap: nullable(c.MarketCap),
		Currency:  c.Currency,
	})
}
