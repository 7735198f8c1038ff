package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/changes"
	"go.uber.org/zap"
)

// Changes lets a display poll: changed is true when the household moved past
// ?since=.
func (handler *Handler) Changes(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	since, err := strconv.ParseUint(c.Query("since", "0"), 10, 64)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid since")
	}
	revision := handler.hub.Revision(household.ID)
	return c.JSON(fiber.Map{"revision": revision, "changed": revision > since})
}

// ChangesStream pushes change events as server-sent events. Events are hints;
// clients re-read the week they show.
func (handler *Handler) ChangesStream(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	subscriber := handler.hub.Subscribe(household.ID)
	if subscriber == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "shutting down")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	hub := handler.hub
	logger := handler.logger
	revision := hub.Revision(household.ID)
	c.Context().SetBodyStreamWriter(func(writer *bufio.Writer) {
		defer hub.Unsubscribe(subscriber)
		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		if err := writeStreamComment(writer, fmt.Sprintf("revision %d", revision)); err != nil {
			return
		}
		for {
			select {
			case event, open := <-subscriber.Events():
				if !open {
					return
				}
				if err := writeStreamEvent(writer, event); err != nil {
					logger.Debug("change stream closed", zap.Uint("household_id", event.HouseholdID), zap.Error(err))
					return
				}
			case <-heartbeat.C:
				if err := writeStreamComment(writer, "ping"); err != nil {
					return
				}
			}
		}
	})
	return nil
}

func writeStreamEvent(writer *bufio.Writer, event changes.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "id: %d\nevent: change\ndata: %s\n\n", event.Revision, payload); err != nil {
		return err
	}
	return writer.Flush()
}

func writeStreamComment(writer *bufio.Writer, comment string) error {
	if _, err := fmt.Fprintf(writer, ": %s\n\n", comment); err != nil {
		return err
	}
	return writer.Flush()
}
