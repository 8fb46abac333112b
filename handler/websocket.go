package handler

import (
	"context"
	"time"

	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/metrics"
	"venue_manager/model"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const boardPingInterval = 30 * time.Second

type boardSnapshot struct {
	Type     string               `json:"type"`
	Date     string               `json:"date"`
	Bookings []model.TableBooking `json:"bookings"`
}

func fetchBoard(date time.Time) ([]model.TableBooking, error) {
	var bookings []model.TableBooking
	err := database.DB.Preload("Table").
		Where("booking_date = ?", date).
		Order("start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

// BookingBoard streams the bookings of one service date: a snapshot first,
// then every change published on the date's Redis channel.
func BookingBoard(c *websocket.Conn) {
	defer c.Close()

	date, err := helper.ParseDate(c.Params("date"))
	if err != nil {
		_ = c.WriteJSON(map[string]string{"type": "error", "error": "invalid date"})
		return
	}

	metrics.BoardClients.Inc()
	defer metrics.BoardClients.Dec()

	bookings, err := fetchBoard(date)
	if err != nil {
		zap.S().Errorf("board snapshot %s: %v", date.Format(time.DateOnly), err)
		return
	}
	if err := c.WriteJSON(boardSnapshot{Type: "snapshot", Date: date.Format(time.DateOnly), Bookings: bookings}); err != nil {
		return
	}
	if database.Redis == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := database.Redis.Subscribe(ctx, helper.BoardChannel(date))
	defer pubsub.Close()

	// The read loop only notices the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(boardPingInterval)
	defer ticker.Stop()

	channel := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-channel:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
