// Package worker audits published pages: for every campaign event it loads
// the campaign, renders it the way the public side does and reports sections
// that no longer render or validate.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/text/language"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/page"
	"github.com/Mutter0815/PageBuilder/internal/section"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
	"github.com/Mutter0815/PageBuilder/pkg/metrics"
	"github.com/Mutter0815/PageBuilder/pkg/model"
)

// Campaigns reads stored campaigns.
type Campaigns interface {
	GetCampaign(ctx context.Context, slug string) (campaign.Campaign, error)
}

// Requeuer puts a delivery back on the queue with new headers.
type Requeuer interface {
	PublishJSONWithHeaders(ctx context.Context, body []byte, headers amqp.Table) error
}

// Source yields deliveries.
type Source interface {
	Consume() (<-chan amqp.Delivery, error)
}

type Action string

const (
	ActionAudited  Action = "audited"
	ActionSkipped  Action = "skipped"
	ActionRequeued Action = "requeued"
	ActionDropped  Action = "dropped"
)

// Report is the outcome of one delivery.
type Report struct {
	Event     model.CampaignEvent
	Action    Action
	Retries   int
	Integrity []error
	Invalid   []error
}

type Worker struct {
	Store      Campaigns
	Cons       Source
	Pub        Requeuer
	MaxRetries int
	Lang       language.Tag
	Timeout    time.Duration

	backoff func(retries int) time.Duration
}

func New(st Campaigns, cons Source, pub Requeuer, maxRetries int) *Worker {
	return &Worker{
		Store:      st,
		Cons:       cons,
		Pub:        pub,
		MaxRetries: maxRetries,
		Lang:       language.English,
		Timeout:    5 * time.Second,
		backoff:    backoffDelay,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.Cons.Consume()
	if err != nil {
		return err
	}
	logx.L().Infow("worker_started")

	for {
		select {
		case <-ctx.Done():
			logx.L().Infow("worker_stopping")
			return ctx.Err()

		case d, ok := <-msgs:
			if !ok {
				logx.L().Warnw("consumer_channel_closed")
				return nil
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle audits one delivery and settles it: ack on success or on a
// permanent failure, requeue with backoff on a transport failure.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) Report {
	start := time.Now()
	metrics.WorkerEventsConsumed.Inc()
	defer func() { metrics.WorkerProcessDuration.Observe(time.Since(start).Seconds()) }()

	var r Report
	if err := json.Unmarshal(d.Body, &r.Event); err != nil || r.Event.Slug == "" {
		logx.L().Warnw("event_unmarshal_error", "error", err)
		metrics.WorkerEventsFailed.Inc()
		_ = d.Ack(false)
		r.Action = ActionDropped
		return r
	}
	fields := []any{"type", r.Event.Type, "slug", r.Event.Slug}

	if r.Event.Type == model.CampaignDeleted {
		logx.L().Debugw("audit_skip_deleted", fields...)
		_ = d.Ack(false)
		r.Action = ActionSkipped
		return r
	}

	getCtx, cancel := context.WithTimeout(ctx, w.Timeout)
	c, err := w.Store.GetCampaign(getCtx, r.Event.Slug)
	cancel()
	switch {
	case err == nil:
	case apperr.KindOf(err) == apperr.KindNotFound:
		logx.L().Infow("audit_skip_missing", fields...)
		_ = d.Ack(false)
		r.Action = ActionSkipped
		return r
	default:
		return w.retry(ctx, d, r, append(fields, "error", err))
	}

	p := page.Compose(c, w.Lang)
	r.Integrity = p.Problems
	var probs apperr.Problems
	if errors.As(section.Validate(c.Sections), &probs) {
		r.Invalid = probs.Unwrap()
	}
	r.Action = ActionAudited

	if len(r.Integrity) > 0 || len(r.Invalid) > 0 {
		logx.L().Warnw("audit_problems", append(fields,
			"active", c.IsActive,
			"integrity", len(r.Integrity),
			"invalid", len(r.Invalid),
		)...)
	} else {
		logx.L().Infow("audit_ok", append(fields, "blocks", len(p.Blocks), "faq", len(p.FAQ))...)
	}
	_ = d.Ack(false)
	return r
}

func (w *Worker) retry(ctx context.Context, d amqp.Delivery, r Report, fields []any) Report {
	metrics.WorkerEventsFailed.Inc()
	retries := headerRetries(d.Headers)
	if retries >= w.MaxRetries {
		logx.L().Warnw("drop_after_retries", append(fields, "retries", retries)...)
		_ = d.Ack(false)
		r.Action, r.Retries = ActionDropped, retries
		return r
	}

	delay := w.backoff(retries + 1)
	metrics.WorkerEventRetries.Inc()
	logx.L().Infow("retry_requeue", append(fields, "retries", retries+1, "delay", delay.String())...)
	if err := w.requeueMessage(ctx, d, retries+1, delay); err != nil {
		logx.L().Errorw("retry_publish_error", append(fields, "retries", retries+1, "error", err)...)
		_ = d.Nack(false, true)
	}
	r.Action, r.Retries = ActionRequeued, retries+1
	return r
}

func (w *Worker) requeueMessage(ctx context.Context, d amqp.Delivery, retries int, delay time.Duration) error {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	headers := copyHeaders(d.Headers)
	setHeaderRetries(&headers, retries)

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := w.Pub.PublishJSONWithHeaders(pubCtx, d.Body, headers); err != nil {
		return err
	}

	return d.Ack(false)
}

func headerRetries(h amqp.Table) int {
	if h == nil {
		return 0
	}
	if v, ok := h["x-retries"]; ok {
		switch t := v.(type) {
		case int32:
			return int(t)
		case int64:
			return int(t)
		case int:
			return t
		case uint8:
			return int(t)
		}
	}
	return 0
}

func setHeaderRetries(h *amqp.Table, n int) {
	if *h == nil {
		*h = amqp.Table{}
	}
	(*h)["x-retries"] = int32(n)
}

// backoffDelay is 1s, 2s, 4s, ... for retries 1, 2, 3, ...
func backoffDelay(retries int) time.Duration {
	if retries <= 0 {
		return 0
	}
	sec := math.Pow(2, float64(retries-1))
	return time.Duration(sec) * time.Second
}

func copyHeaders(h amqp.Table) amqp.Table {
	dup := make(amqp.Table, len(h))
	for k, v := range h {
		dup[k] = v
	}
	return dup
}
