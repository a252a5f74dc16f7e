package stream

import (
	"encoding/json"
	"time"

	"tickcollector/internal/ftxus/aggregate"
	"tickcollector/pkg/ftxus"

	"go.uber.org/zap"
)

// MakeMessageHandler returns a function that handles incoming WebSocket
// messages by normalizing ticker updates and routing them into the
// aggregation engine.
func MakeMessageHandler(logger *zap.Logger, router *aggregate.Router) func(msg []byte) {
	return func(msg []byte) {
		var parsed ftxus.TickerMessage
		if err := json.Unmarshal(msg, &parsed); err != nil {
			logger.Warn("failed to parse websocket message", zap.Error(err))
			return
		}

		switch parsed.Type {
		case "update":
		case "subscribed":
			logger.Info("subscribed", zap.String("channel", parsed.Channel), zap.String("market", parsed.Market))
			return
		case "error":
			logger.Warn("websocket error message", zap.Int("code", parsed.Code), zap.String("msg", parsed.Msg))
			return
		default:
			return // pong, info, unsubscribed
		}
		if parsed.Channel != "ticker" {
			return
		}

		router.Route(aggregate.Tick{
			Symbol:    parsed.Market,
			Bid:       parsed.Data.Bid,
			Ask:       parsed.Data.Ask,
			BidVolume: parsed.Data.BidSize,
			AskVolume: parsed.Data.AskSize,
			Timestamp: tickerTime(parsed.Data.Time),
		})
	}
}

// tickerTime converts the feed's fractional-second epoch stamp, keeping
// millisecond resolution.
func tickerTime(seconds float64) time.Time {
	return time.UnixMilli(int64(seconds * 1000))
}
