package strategy

import "SignalSentinel/internal/model"

// RSI thresholds for the decision rule.
const (
	BuyRSIMin  = 50.0
	BuyRSIMax  = 70.0
	SellRSIMin = 70.0
)

// EvaluateSnapshot applies the decision rule to a single snapshot.
// Rules are checked in order and the first match wins:
//  1. close > MA50, 50 < RSI < 70, MACD > signal => BUY
//  2. RSI > 70 or close < MA50                   => SELL
//  3. otherwise                                  => NONE
func EvaluateSnapshot(symbol string, snap model.IndicatorSnapshot) model.Signal {
	sig := model.Signal{
		Kind:   model.SignalNone,
		Symbol: symbol,
		Price:  snap.Close,
		Time:   snap.Time,
	}

	switch {
	case snap.Close > snap.MA50 && snap.RSI14 > BuyRSIMin && snap.RSI14 < BuyRSIMax && snap.MACD > snap.MACDSignal:
		sig.Kind = model.SignalBuy
	case snap.RSI14 > SellRSIMin || snap.Close < snap.MA50:
		sig.Kind = model.SignalSell
	}
	return sig
}

// Evaluate returns the signal for the most recent snapshot, or NONE when
// there is none.
func Evaluate(symbol string, snaps []model.IndicatorSnapshot) model.Signal {
	if len(snaps) == 0 {
		return model.Signal{Kind: model.SignalNone, Symbol: symbol}
	}
	return EvaluateSnapshot(symbol, snaps[len(snaps)-1])
}
