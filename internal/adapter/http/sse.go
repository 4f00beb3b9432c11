package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/service"
)

const keepAliveInterval = 15 * time.Second

type JobStatusReader interface {
	Status(id string) (domain.JobView, error)
}

type SSEHandler struct {
	eventBus  *service.EventBus
	jobs      JobStatusReader
	keepAlive time.Duration
}

func NewSSEHandler(eventBus *service.EventBus, jobs JobStatusReader) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		jobs:      jobs,
		keepAlive: keepAliveInterval,
	}
}

// sseWrite writes an SSE event, handling multi-line data correctly.
func sseWrite(w http.ResponseWriter, eventName string, data string) {
	_, _ = fmt.Fprintf(w, "event: %s\n", eventName)
	for _, line := range strings.Split(data, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func sendJob(w http.ResponseWriter, eventName string, view domain.JobView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	sseWrite(w, eventName, string(data))
	return nil
}

// sendKeepAlive writes an SSE comment to keep the connection active.
func sendKeepAlive(w http.ResponseWriter) {
	_, _ = fmt.Fprint(w, ": keep-alive\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// Events streams the job view as "status" and "progress" events until the
// job reaches a terminal state.
func (h *SSEHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		// Subscribe before reading the current state so no update is lost
		// between the two.
		ch := h.eventBus.Subscribe(id)
		defer h.eventBus.Unsubscribe(id, ch)

		view, err := h.jobs.Status(id)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Job not found"})
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		_ = sendJob(w, service.EventStatus, view)

		ctx := r.Context()

		// If already terminal, wait for client close
		if view.Status.IsTerminal() {
			<-ctx.Done()
			return
		}

		keepAlive := time.NewTicker(h.keepAlive)
		defer keepAlive.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-keepAlive.C:
				sendKeepAlive(w)
			case event, ok := <-ch:
				if !ok {
					return
				}
				_ = sendJob(w, event.Type, event.Job)

				// Let client close connection when terminal
				if event.Job.Status.IsTerminal() {
					<-ctx.Done()
					return
				}
			}
		}
	}
}
